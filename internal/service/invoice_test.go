package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinvarma411/dhanapathrika/internal/auth"
	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

const testPassword = "hunter2hunter2"

func seedOwner(t *testing.T, store *memStore) uuid.UUID {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	owner := &domain.User{
		ID:           uuid.New(),
		UserName:     "Nithin",
		Email:        "owner@example.com",
		PasswordHash: hash,
		CompanyName:  "Acme Traders",
		InvoiceTheme: domain.DefaultInvoiceTheme,
	}
	require.NoError(t, store.CreateUser(context.Background(), owner))
	return owner.ID
}

func seedStock(t *testing.T, store *memStore, ownerID uuid.UUID, name string, available int32) {
	t.Helper()
	require.NoError(t, store.CreateStockItem(context.Background(), &domain.StockItem{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              name,
		CostPriceCents:    100,
		SellingPriceCents: 200,
		AvailableQuantity: available,
		MinQuantity:       1,
		Unit:              domain.UnitPiece,
	}))
}

func stockQty(t *testing.T, store *memStore, ownerID uuid.UUID, name string) int32 {
	t.Helper()
	item, err := store.GetStockItemByName(context.Background(), ownerID, name)
	require.NoError(t, err)
	return item.AvailableQuantity
}

func validCreateParams(items ...domain.InvoiceItemParams) domain.CreateInvoiceParams {
	return domain.CreateInvoiceParams{
		CustomerName:    "Acme Corp",
		CustomerEmail:   "billing@acme.example",
		Items:           items,
		AmountPaidCents: 10_000,
		IssuedAt:        time.Date(2025, 3, 7, 11, 0, 0, 0, time.UTC),
		PaymentMethod:   "cash",
	}
}

func TestInvoiceCreate_DecrementsStockAndGeneratesNumber(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 5)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 2500, Quantity: 3})
	params.AmountPaidCents = 7500 // pays in full

	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	assert.Equal(t, "ACME070325-01", inv.Number)
	assert.False(t, inv.IsDue)
	assert.Nil(t, inv.DueDate)
	assert.EqualValues(t, 2, stockQty(t, store, ownerID, "Widget"))
}

func TestInvoiceCreate_SequenceIncrementsPerCustomerDay(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 2500, Quantity: 1})
	params.AmountPaidCents = 2500

	first, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	assert.Equal(t, "ACME070325-01", first.Number)
	assert.Equal(t, "ACME070325-02", second.Number)
}

func TestInvoiceCreate_DueStateFollowsBalance(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	dueDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 2500, Quantity: 4})
	params.AmountPaidCents = 4000
	params.DiscountCents = 1000
	params.DueDate = &dueDate

	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	// 10000 - 1000 - 4000 leaves 5000 outstanding.
	assert.True(t, inv.IsDue)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, dueDate, *inv.DueDate)
	assert.EqualValues(t, 5000, inv.BalanceCents())
}

func TestInvoiceCreate_DueWithoutDueDateFails(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 2500, Quantity: 4})
	params.AmountPaidCents = 4000 // 6000 outstanding, no due date

	_, err := svc.Create(context.Background(), ownerID, params)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Contains(t, domain.GetValidationFields(err), "DueDate")
	assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Widget"))
}

func TestInvoiceCreate_ValidationErrors(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	tests := []struct {
		name   string
		mutate func(*domain.CreateInvoiceParams)
		field  string
	}{
		{
			name:   "missing customer name",
			mutate: func(p *domain.CreateInvoiceParams) { p.CustomerName = "" },
			field:  "CustomerName",
		},
		{
			name:   "missing customer email",
			mutate: func(p *domain.CreateInvoiceParams) { p.CustomerEmail = "" },
			field:  "CustomerEmail",
		},
		{
			name:   "missing payment method",
			mutate: func(p *domain.CreateInvoiceParams) { p.PaymentMethod = "" },
			field:  "PaymentMethod",
		},
		{
			name:   "empty item list",
			mutate: func(p *domain.CreateInvoiceParams) { p.Items = nil },
			field:  "Items",
		},
		{
			name:   "negative amount paid",
			mutate: func(p *domain.CreateInvoiceParams) { p.AmountPaidCents = -1 },
			field:  "AmountPaid",
		},
		{
			name:   "negative discount",
			mutate: func(p *domain.CreateInvoiceParams) { p.DiscountCents = -1 },
			field:  "Discount",
		},
		{
			name:   "discount exceeds total",
			mutate: func(p *domain.CreateInvoiceParams) { p.DiscountCents = 100_000 },
			field:  "Discount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 2500, Quantity: 1})
			params.AmountPaidCents = 2500
			tt.mutate(&params)

			_, err := svc.Create(context.Background(), ownerID, params)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err), "expected validation error, got %v", err)
			assert.Contains(t, domain.GetValidationFields(err), tt.field)
			assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Widget"))
		})
	}
}

func TestInvoiceCreate_UnknownItem(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Ghost", UnitPriceCents: 100, Quantity: 1})
	params.AmountPaidCents = 100

	_, err := svc.Create(context.Background(), ownerID, params)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	assert.Contains(t, err.Error(), "Ghost")
}

func TestInvoiceCreate_InsufficientStock(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 5)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 2500, Quantity: 3})
	params.AmountPaidCents = 7500

	_, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stockQty(t, store, ownerID, "Widget"))

	// Second invoice for 3 more cannot be satisfied from the 2 remaining.
	_, err = svc.Create(context.Background(), ownerID, params)
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Widget", stockErr.Item)
	assert.EqualValues(t, 2, stockErr.Available)
	assert.EqualValues(t, 3, stockErr.Required)

	// The failed attempt leaves quantities untouched.
	assert.EqualValues(t, 2, stockQty(t, store, ownerID, "Widget"))
}

func TestInvoiceCreate_MultiItemFailureAppliesNothing(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	seedStock(t, store, ownerID, "Gadget", 1)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(
		domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 100, Quantity: 5},
		domain.InvoiceItemParams{Name: "Gadget", UnitPriceCents: 100, Quantity: 3},
	)
	params.AmountPaidCents = 800

	_, err := svc.Create(context.Background(), ownerID, params)
	require.Error(t, err)
	assert.True(t, domain.IsInsufficientStock(err))

	assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Widget"))
	assert.EqualValues(t, 1, stockQty(t, store, ownerID, "Gadget"))
}

func updateParamsFromInvoice(inv *domain.Invoice) domain.UpdateInvoiceParams {
	items := make([]domain.InvoiceItemParams, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = domain.InvoiceItemParams{Name: item.Name, UnitPriceCents: item.UnitPriceCents, Quantity: item.Quantity}
	}
	return domain.UpdateInvoiceParams{
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,
		Items:           items,
		AmountPaidCents: inv.AmountPaidCents,
		DiscountCents:   inv.DiscountCents,
		DueDate:         inv.DueDate,
		IssuedAt:        inv.IssuedAt,
		PaymentMethod:   inv.PaymentMethod,
	}
}

func TestInvoiceUpdate_QuantityIncreaseAppliesNetDelta(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 12)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 2})
	params.AmountPaidCents = 2000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Widget"))

	// 2 -> 5 with 10 available: net decrement of 3 leaves 7.
	update := updateParamsFromInvoice(inv)
	update.Items[0].Quantity = 5
	update.AmountPaidCents = 5000

	updated, deltas, err := svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	assert.EqualValues(t, 7, stockQty(t, store, ownerID, "Widget"))
	require.Len(t, deltas, 1)
	assert.Equal(t, domain.StockDelta{Name: "Widget", Delta: -3, Reason: "quantity changed"}, deltas[0])
	assert.False(t, updated.IsDue)
}

func TestInvoiceUpdate_UnchangedItemHasZeroNetDelta(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 4})
	params.AmountPaidCents = 4000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	update := updateParamsFromInvoice(inv)
	update.CustomerPhone = "9999999999"

	_, deltas, err := svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	assert.Empty(t, deltas)
	assert.EqualValues(t, 6, stockQty(t, store, ownerID, "Widget"))
}

func TestInvoiceUpdate_QuantityReductionRestoresStock(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 6})
	params.AmountPaidCents = 6000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stockQty(t, store, ownerID, "Widget"))

	update := updateParamsFromInvoice(inv)
	update.Items[0].Quantity = 2
	update.AmountPaidCents = 2000

	_, deltas, err := svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	assert.EqualValues(t, 8, stockQty(t, store, ownerID, "Widget"))
	require.Len(t, deltas, 1)
	assert.EqualValues(t, 4, deltas[0].Delta)
}

func TestInvoiceUpdate_RemovedItemRestoredExactlyOnce(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	seedStock(t, store, ownerID, "Gadget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(
		domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 3},
		domain.InvoiceItemParams{Name: "Gadget", UnitPriceCents: 1000, Quantity: 2},
	)
	params.AmountPaidCents = 5000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 8, stockQty(t, store, ownerID, "Gadget"))

	// Drop Gadget directly (no deleted-items entry).
	update := updateParamsFromInvoice(inv)
	update.Items = update.Items[:1]
	update.AmountPaidCents = 3000

	_, deltas, err := svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Gadget"))
	require.Len(t, deltas, 1)
	assert.Equal(t, domain.StockDelta{Name: "Gadget", Delta: 2, Reason: "removed from invoice"}, deltas[0])
}

func TestInvoiceUpdate_DeletedItemsPathNotDoubleRestored(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	seedStock(t, store, ownerID, "Gadget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(
		domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 3},
		domain.InvoiceItemParams{Name: "Gadget", UnitPriceCents: 1000, Quantity: 2},
	)
	params.AmountPaidCents = 5000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	// Drop Gadget through the explicit deleted-items list.
	update := updateParamsFromInvoice(inv)
	update.Items = update.Items[:1]
	update.AmountPaidCents = 3000
	update.DeletedItems = []domain.DeletedItemParams{
		{Name: "Gadget", Quantity: 2, Reason: "customer returned"},
	}

	_, deltas, err := svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	// Restored exactly once: 8 + 2, not 8 + 4.
	assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Gadget"))
	require.Len(t, deltas, 1)
	assert.Equal(t, domain.StockDelta{Name: "Gadget", Delta: 2, Reason: "customer returned"}, deltas[0])
}

func TestInvoiceUpdate_NewItemConsumesFullQuantity(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	seedStock(t, store, ownerID, "Gadget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 3})
	params.AmountPaidCents = 3000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	update := updateParamsFromInvoice(inv)
	update.Items = append(update.Items, domain.InvoiceItemParams{Name: "Gadget", UnitPriceCents: 1000, Quantity: 4})
	update.AmountPaidCents = 7000

	_, deltas, err := svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	assert.EqualValues(t, 6, stockQty(t, store, ownerID, "Gadget"))
	require.Len(t, deltas, 1)
	assert.EqualValues(t, -4, deltas[0].Delta)
}

func TestInvoiceUpdate_InsufficientStockAppliesNothing(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	seedStock(t, store, ownerID, "Gadget", 1)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(
		domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 2},
		domain.InvoiceItemParams{Name: "Gadget", UnitPriceCents: 1000, Quantity: 1},
	)
	params.AmountPaidCents = 3000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	widgetBefore := stockQty(t, store, ownerID, "Widget")
	gadgetBefore := stockQty(t, store, ownerID, "Gadget")

	// Widget's delta would apply first; Gadget's increase then fails, and
	// the transaction rolls everything back.
	update := updateParamsFromInvoice(inv)
	update.Items[0].Quantity = 5
	update.Items[1].Quantity = 3
	update.AmountPaidCents = 8000

	_, _, err = svc.Update(context.Background(), ownerID, inv.ID, update)
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Gadget", stockErr.Item)
	assert.EqualValues(t, gadgetBefore, stockErr.Available)
	assert.EqualValues(t, 2, stockErr.Required)

	assert.EqualValues(t, widgetBefore, stockQty(t, store, ownerID, "Widget"))
	assert.EqualValues(t, gadgetBefore, stockQty(t, store, ownerID, "Gadget"))

	// The invoice itself is unchanged too.
	reloaded, err := svc.Get(context.Background(), ownerID, inv.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloaded.Items[0].Quantity)
}

func TestInvoiceUpdate_AppendsRevision(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	dueDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 2})
	params.AmountPaidCents = 2000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	update := updateParamsFromInvoice(inv)
	update.Items[0].Quantity = 4
	update.AmountPaidCents = 1000
	update.DueDate = &dueDate

	_, _, err = svc.Update(context.Background(), ownerID, inv.ID, update)
	require.NoError(t, err)

	revs, err := svc.Revisions(context.Background(), ownerID, inv.ID)
	require.NoError(t, err)
	require.Len(t, revs, 1)

	assert.EqualValues(t, 0, revs[0].BalanceBeforeCents)
	assert.EqualValues(t, 3000, revs[0].BalanceAfterCents)
	require.Len(t, revs[0].StockDeltas, 1)
	assert.EqualValues(t, -2, revs[0].StockDeltas[0].Delta)
}

func TestInvoiceUpdate_NewlyDueRequiresDueDate(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 2})
	params.AmountPaidCents = 2000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	update := updateParamsFromInvoice(inv)
	update.AmountPaidCents = 500 // now owing, still no due date

	_, _, err = svc.Update(context.Background(), ownerID, inv.ID, update)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Contains(t, domain.GetValidationFields(err), "DueDate")
	assert.EqualValues(t, 8, stockQty(t, store, ownerID, "Widget"))
}

func TestInvoiceUpdate_UnknownInvoice(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 1})
	update := domain.UpdateInvoiceParams{
		CustomerName:    params.CustomerName,
		CustomerEmail:   params.CustomerEmail,
		Items:           params.Items,
		AmountPaidCents: 1000,
		PaymentMethod:   params.PaymentMethod,
	}

	_, _, err := svc.Update(context.Background(), ownerID, uuid.New(), update)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestInvoiceDelete_RestoresStockAndRemovesInvoice(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 4})
	params.AmountPaidCents = 4000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 6, stockQty(t, store, ownerID, "Widget"))

	require.NoError(t, svc.Delete(context.Background(), ownerID, inv.ID, testPassword))

	assert.EqualValues(t, 10, stockQty(t, store, ownerID, "Widget"))
	_, err = svc.Get(context.Background(), ownerID, inv.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestInvoiceDelete_WrongPassword(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 4})
	params.AmountPaidCents = 4000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), ownerID, inv.ID, "not-the-password")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EUNAUTHORIZED))

	// Nothing was touched.
	assert.EqualValues(t, 6, stockQty(t, store, ownerID, "Widget"))
	_, err = svc.Get(context.Background(), ownerID, inv.ID)
	assert.NoError(t, err)
}

func TestInvoiceList_FiltersByIssueDate(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 100)
	svc := NewInvoiceService(store, nil)

	for _, month := range []time.Month{time.January, time.February, time.March} {
		params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 1})
		params.AmountPaidCents = 1000
		params.IssuedAt = time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC)
		_, err := svc.Create(context.Background(), ownerID, params)
		require.NoError(t, err)
	}

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)
	invoices, err := svc.List(context.Background(), ownerID, from, to)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, time.February, invoices[0].IssuedAt.Month())
}

func TestInvoiceLatest(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 100)
	svc := NewInvoiceService(store, nil)

	var last *domain.Invoice
	for day := 1; day <= 3; day++ {
		params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 1})
		params.AmountPaidCents = 1000
		params.IssuedAt = time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC)
		inv, err := svc.Create(context.Background(), ownerID, params)
		require.NoError(t, err)
		last = inv
	}

	latest, err := svc.Latest(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, last.ID, latest.ID)
}

func TestInvoiceGet_OtherOwnerCollapsesToNotFound(t *testing.T) {
	store := newMemStore()
	ownerID := seedOwner(t, store)
	seedStock(t, store, ownerID, "Widget", 10)
	svc := NewInvoiceService(store, nil)

	params := validCreateParams(domain.InvoiceItemParams{Name: "Widget", UnitPriceCents: 1000, Quantity: 1})
	params.AmountPaidCents = 1000
	inv, err := svc.Create(context.Background(), ownerID, params)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), inv.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}
