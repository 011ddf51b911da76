package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Unit is the measurement unit for a stock item.
type Unit string

const (
	UnitPiece    Unit = "pcs"
	UnitKilogram Unit = "kg"
	UnitLitre    Unit = "L"
)

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitKilogram, UnitLitre:
		return true
	}
	return false
}

// StockItem is one entry in an owner's stock ledger. Names are unique per
// owner; invoices reference items by name. AvailableQuantity is mutated only
// through invoice create/update/delete and must never go negative.
type StockItem struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Name              string
	CostPriceCents    int64
	SellingPriceCents int64
	AvailableQuantity int32
	MinQuantity       int32
	Unit              Unit
	Group             string // optional display group, empty when ungrouped
	ItemCode          string // optional external code, empty when unset
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowStock reports whether the item has fallen below its minimum quantity.
func (s *StockItem) LowStock() bool {
	return s.AvailableQuantity < s.MinQuantity
}

// StockStore is the persistence contract for the stock ledger.
type StockStore interface {
	CreateStockItem(ctx context.Context, item *StockItem) error
	GetStockItem(ctx context.Context, ownerID, id uuid.UUID) (*StockItem, error)
	GetStockItemByName(ctx context.Context, ownerID uuid.UUID, name string) (*StockItem, error)
	ListStockItems(ctx context.Context, ownerID uuid.UUID) ([]StockItem, error)
	ListStockItemsByGroup(ctx context.Context, ownerID uuid.UUID, group string) ([]StockItem, error)
	ListStockGroups(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	ListLowStockItems(ctx context.Context, ownerID uuid.UUID) ([]StockItem, error)
	UpdateStockItem(ctx context.Context, item *StockItem) error
	DeleteStockItem(ctx context.Context, ownerID, id uuid.UUID) error

	// AdjustStockQuantity applies a quantity delta to the named item and
	// returns the resulting quantity. The write is conditional: a negative
	// delta that would take the quantity below zero must not be applied and
	// returns an InsufficientStockError.
	AdjustStockQuantity(ctx context.Context, ownerID uuid.UUID, name string, delta int32) (int32, error)
}

// StockService exposes stock ledger operations to the API layer.
type StockService interface {
	Create(ctx context.Context, ownerID uuid.UUID, params CreateStockItemParams) (*StockItem, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*StockItem, error)
	List(ctx context.Context, ownerID uuid.UUID, group string) ([]StockItem, error)
	Groups(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	LowStock(ctx context.Context, ownerID uuid.UUID) ([]StockItem, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateStockItemParams) (*StockItem, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// CreateStockItemParams contains the fields for adding a ledger entry.
type CreateStockItemParams struct {
	Name              string
	CostPriceCents    int64
	SellingPriceCents int64
	AvailableQuantity int32
	MinQuantity       int32
	Unit              Unit
	Group             string
	ItemCode          string
}

// UpdateStockItemParams is a full replacement of the editable fields.
type UpdateStockItemParams struct {
	Name              string
	CostPriceCents    int64
	SellingPriceCents int64
	AvailableQuantity int32
	MinQuantity       int32
	Unit              Unit
	Group             string
	ItemCode          string
}
