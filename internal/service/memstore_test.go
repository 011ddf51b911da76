package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

// memStore is an in-memory domain.Store used by the service tests. WithTx
// snapshots all state and restores it when the callback fails, matching the
// all-or-nothing behavior of the real transactional store.
type memStore struct {
	users     map[uuid.UUID]*domain.User
	sessions  map[string]*domain.Session
	stock     map[uuid.UUID]*domain.StockItem
	invoices  map[uuid.UUID]*domain.Invoice
	revisions map[uuid.UUID][]domain.InvoiceRevision
	sequences map[string]int32
	reminded  map[uuid.UUID]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*domain.User),
		sessions:  make(map[string]*domain.Session),
		stock:     make(map[uuid.UUID]*domain.StockItem),
		invoices:  make(map[uuid.UUID]*domain.Invoice),
		revisions: make(map[uuid.UUID][]domain.InvoiceRevision),
		sequences: make(map[string]int32),
		reminded:  make(map[uuid.UUID]bool),
	}
}

func (m *memStore) Users() domain.UserStore       { return m }
func (m *memStore) Sessions() domain.SessionStore { return m }
func (m *memStore) Stock() domain.StockStore      { return m }
func (m *memStore) Invoices() domain.InvoiceStore { return m }

func (m *memStore) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range m.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range m.sessions {
		s := *v
		c.sessions[k] = &s
	}
	for k, v := range m.stock {
		s := *v
		c.stock[k] = &s
	}
	for k, v := range m.invoices {
		inv := *v
		inv.Items = append([]domain.InvoiceItem(nil), v.Items...)
		if v.DueDate != nil {
			d := *v.DueDate
			inv.DueDate = &d
		}
		c.invoices[k] = &inv
	}
	for k, v := range m.revisions {
		c.revisions[k] = append([]domain.InvoiceRevision(nil), v...)
	}
	for k, v := range m.sequences {
		c.sequences[k] = v
	}
	for k, v := range m.reminded {
		c.reminded[k] = v
	}
	return c
}

// ----- UserStore -----

func (m *memStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user.get", "user", id.String())
	}
	return user, nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.NotFound("user.get", "user", email)
}

func (m *memStore) UpdateUserProfile(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

// ----- SessionStore -----

func (m *memStore) CreateSession(ctx context.Context, session *domain.Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *memStore) GetSessionUserID(ctx context.Context, token string, now time.Time) (uuid.UUID, error) {
	session, ok := m.sessions[token]
	if !ok || session.ExpiresAt.Before(now) {
		return uuid.Nil, domain.NotFound("session.get", "session", token)
	}
	return session.UserID, nil
}

func (m *memStore) DeleteSession(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

// ----- StockStore -----

func (m *memStore) CreateStockItem(ctx context.Context, item *domain.StockItem) error {
	m.stock[item.ID] = item
	return nil
}

func (m *memStore) GetStockItem(ctx context.Context, ownerID, id uuid.UUID) (*domain.StockItem, error) {
	item, ok := m.stock[id]
	if !ok || item.OwnerID != ownerID {
		return nil, domain.NotFound("stock.get", "stock item", id.String())
	}
	return item, nil
}

func (m *memStore) GetStockItemByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.StockItem, error) {
	for _, item := range m.stock {
		if item.OwnerID == ownerID && item.Name == name {
			return item, nil
		}
	}
	return nil, domain.NotFound("stock.get", "stock item", name)
}

func (m *memStore) ListStockItems(ctx context.Context, ownerID uuid.UUID) ([]domain.StockItem, error) {
	var items []domain.StockItem
	for _, item := range m.stock {
		if item.OwnerID == ownerID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *memStore) ListStockItemsByGroup(ctx context.Context, ownerID uuid.UUID, group string) ([]domain.StockItem, error) {
	var items []domain.StockItem
	for _, item := range m.stock {
		if item.OwnerID == ownerID && item.Group == group {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *memStore) ListStockGroups(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	var groups []string
	for _, item := range m.stock {
		if item.OwnerID == ownerID && item.Group != "" && !seen[item.Group] {
			seen[item.Group] = true
			groups = append(groups, item.Group)
		}
	}
	sort.Strings(groups)
	return groups, nil
}

func (m *memStore) ListLowStockItems(ctx context.Context, ownerID uuid.UUID) ([]domain.StockItem, error) {
	var items []domain.StockItem
	for _, item := range m.stock {
		if item.OwnerID == ownerID && item.LowStock() {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *memStore) UpdateStockItem(ctx context.Context, item *domain.StockItem) error {
	m.stock[item.ID] = item
	return nil
}

func (m *memStore) DeleteStockItem(ctx context.Context, ownerID, id uuid.UUID) error {
	delete(m.stock, id)
	return nil
}

func (m *memStore) AdjustStockQuantity(ctx context.Context, ownerID uuid.UUID, name string, delta int32) (int32, error) {
	item, err := m.GetStockItemByName(ctx, ownerID, name)
	if err != nil {
		return 0, err
	}
	next := item.AvailableQuantity + delta
	if next < 0 {
		return 0, &domain.InsufficientStockError{
			Item:      name,
			Available: item.AvailableQuantity,
			Required:  -delta,
		}
	}
	item.AvailableQuantity = next
	return next, nil
}

// ----- InvoiceStore -----

func (m *memStore) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memStore) GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, domain.NotFound("invoice.get", "invoice", id.String())
	}
	return inv, nil
}

func (m *memStore) ListInvoices(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	for _, inv := range m.invoices {
		if inv.OwnerID != ownerID {
			continue
		}
		if inv.IssuedAt.Before(from) || inv.IssuedAt.After(to) {
			continue
		}
		invoices = append(invoices, *inv)
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].IssuedAt.After(invoices[j].IssuedAt) })
	return invoices, nil
}

func (m *memStore) GetLatestInvoice(ctx context.Context, ownerID uuid.UUID) (*domain.Invoice, error) {
	var latest *domain.Invoice
	for _, inv := range m.invoices {
		if inv.OwnerID != ownerID {
			continue
		}
		if latest == nil || inv.IssuedAt.After(latest.IssuedAt) {
			latest = inv
		}
	}
	if latest == nil {
		return nil, domain.NotFound("invoice.latest", "invoice", ownerID.String())
	}
	return latest, nil
}

func (m *memStore) UpdateInvoice(ctx context.Context, inv *domain.Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memStore) DeleteInvoice(ctx context.Context, ownerID, id uuid.UUID) error {
	delete(m.invoices, id)
	return nil
}

func (m *memStore) AppendRevision(ctx context.Context, rev *domain.InvoiceRevision) error {
	m.revisions[rev.InvoiceID] = append(m.revisions[rev.InvoiceID], *rev)
	return nil
}

func (m *memStore) ListRevisions(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceRevision, error) {
	return m.revisions[invoiceID], nil
}

func (m *memStore) NextInvoiceSequence(ctx context.Context, ownerID uuid.UUID, customerKey string, day time.Time) (int32, error) {
	key := fmt.Sprintf("%s|%s|%s", ownerID, customerKey, day.Format("2006-01-02"))
	m.sequences[key]++
	return m.sequences[key], nil
}

func (m *memStore) ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	var overdue []domain.Invoice
	for _, inv := range m.invoices {
		if inv.IsDue && inv.DueDate != nil && inv.DueDate.Before(asOf) && !m.reminded[inv.ID] {
			overdue = append(overdue, *inv)
		}
	}
	return overdue, nil
}

func (m *memStore) MarkInvoiceReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.reminded[id] = true
	return nil
}
