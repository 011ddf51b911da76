package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type stockStore struct {
	db querier
}

var _ domain.StockStore = (*stockStore)(nil)

const stockColumns = `id, owner_id, name, cost_price_cents, selling_price_cents,
	available_quantity, min_quantity, unit, group_name, item_code, created_at, updated_at`

func scanStockItem(row pgx.Row) (*domain.StockItem, error) {
	var item domain.StockItem
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.CostPriceCents, &item.SellingPriceCents,
		&item.AvailableQuantity, &item.MinQuantity, &item.Unit, &item.Group, &item.ItemCode,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *stockStore) CreateStockItem(ctx context.Context, item *domain.StockItem) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO stock_items (id, owner_id, name, cost_price_cents, selling_price_cents,
			available_quantity, min_quantity, unit, group_name, item_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		item.ID, item.OwnerID, item.Name, item.CostPriceCents, item.SellingPriceCents,
		item.AvailableQuantity, item.MinQuantity, item.Unit, item.Group, item.ItemCode,
	)
	if err != nil {
		return domain.Internal(err, "stock.create", "failed to insert stock item")
	}
	return nil
}

func (s *stockStore) GetStockItem(ctx context.Context, ownerID, id uuid.UUID) (*domain.StockItem, error) {
	item, err := scanStockItem(s.db.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock_items WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("stock.get", "stock item", id.String())
		}
		return nil, domain.Internal(err, "stock.get", "failed to query stock item")
	}
	return item, nil
}

func (s *stockStore) GetStockItemByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.StockItem, error) {
	item, err := scanStockItem(s.db.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock_items WHERE owner_id = $1 AND name = $2`,
		ownerID, name,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("stock.get", "stock item", name)
		}
		return nil, domain.Internal(err, "stock.get", "failed to query stock item")
	}
	return item, nil
}

func (s *stockStore) ListStockItems(ctx context.Context, ownerID uuid.UUID) ([]domain.StockItem, error) {
	return s.listStock(ctx,
		`SELECT `+stockColumns+` FROM stock_items WHERE owner_id = $1 ORDER BY name`,
		ownerID,
	)
}

func (s *stockStore) ListStockItemsByGroup(ctx context.Context, ownerID uuid.UUID, group string) ([]domain.StockItem, error) {
	return s.listStock(ctx,
		`SELECT `+stockColumns+` FROM stock_items WHERE owner_id = $1 AND group_name = $2 ORDER BY name`,
		ownerID, group,
	)
}

func (s *stockStore) ListLowStockItems(ctx context.Context, ownerID uuid.UUID) ([]domain.StockItem, error) {
	return s.listStock(ctx,
		`SELECT `+stockColumns+` FROM stock_items
		WHERE owner_id = $1 AND available_quantity < min_quantity
		ORDER BY name`,
		ownerID,
	)
}

func (s *stockStore) listStock(ctx context.Context, sql string, args ...any) ([]domain.StockItem, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Internal(err, "stock.list", "failed to query stock items")
	}
	defer rows.Close()

	var items []domain.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, domain.Internal(err, "stock.list", "failed to scan stock item")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "stock.list", "failed to read stock items")
	}
	return items, nil
}

func (s *stockStore) ListStockGroups(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT group_name FROM stock_items
		WHERE owner_id = $1 AND group_name <> ''
		ORDER BY group_name`,
		ownerID,
	)
	if err != nil {
		return nil, domain.Internal(err, "stock.groups", "failed to query stock groups")
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, domain.Internal(err, "stock.groups", "failed to scan stock group")
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "stock.groups", "failed to read stock groups")
	}
	return groups, nil
}

func (s *stockStore) UpdateStockItem(ctx context.Context, item *domain.StockItem) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE stock_items
		SET name = $3, cost_price_cents = $4, selling_price_cents = $5,
			available_quantity = $6, min_quantity = $7, unit = $8,
			group_name = $9, item_code = $10, updated_at = now()
		WHERE owner_id = $1 AND id = $2`,
		item.OwnerID, item.ID, item.Name, item.CostPriceCents, item.SellingPriceCents,
		item.AvailableQuantity, item.MinQuantity, item.Unit, item.Group, item.ItemCode,
	)
	if err != nil {
		return domain.Internal(err, "stock.update", "failed to update stock item")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("stock.update", "stock item", item.ID.String())
	}
	return nil
}

func (s *stockStore) DeleteStockItem(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM stock_items WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		return domain.Internal(err, "stock.delete", "failed to delete stock item")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("stock.delete", "stock item", id.String())
	}
	return nil
}

// AdjustStockQuantity applies the delta with a guarded update so the quantity
// can never go negative, even under concurrent writers. When the guard blocks
// the write, a second read distinguishes a missing item from a shortfall.
func (s *stockStore) AdjustStockQuantity(ctx context.Context, ownerID uuid.UUID, name string, delta int32) (int32, error) {
	var remaining int32
	err := s.db.QueryRow(ctx, `
		UPDATE stock_items
		SET available_quantity = available_quantity + $3, updated_at = now()
		WHERE owner_id = $1 AND name = $2 AND available_quantity + $3 >= 0
		RETURNING available_quantity`,
		ownerID, name, delta,
	).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.Internal(err, "stock.adjust", "failed to adjust stock quantity")
	}

	item, getErr := s.GetStockItemByName(ctx, ownerID, name)
	if getErr != nil {
		return 0, getErr
	}
	return 0, &domain.InsufficientStockError{
		Item:      name,
		Available: item.AvailableQuantity,
		Required:  -delta,
	}
}
