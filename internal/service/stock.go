package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type stockService struct {
	store  domain.Store
	logger *slog.Logger
}

// Compile-time check that stockService implements domain.StockService.
var _ domain.StockService = (*stockService)(nil)

// NewStockService creates the stock ledger service.
func NewStockService(store domain.Store, logger *slog.Logger) domain.StockService {
	if logger == nil {
		logger = slog.Default()
	}
	return &stockService{store: store, logger: logger}
}

func validateStockFields(op, name string, costCents, sellingCents int64, available, min int32, unit domain.Unit) error {
	var err error
	if name == "" {
		err = domain.AddFieldError(err, "Name", "item name is required")
	}
	if costCents <= 0 {
		err = domain.AddFieldError(err, "CostPrice", "cost price must be greater than 0")
	}
	if sellingCents <= 0 {
		err = domain.AddFieldError(err, "SellingPrice", "selling price must be greater than 0")
	}
	if available < 0 {
		err = domain.AddFieldError(err, "AvailableQuantity", "available quantity cannot be less than 0")
	}
	if min < 0 {
		err = domain.AddFieldError(err, "MinQuantity", "minimum quantity cannot be less than 0")
	}
	if unit != "" && !unit.Valid() {
		err = domain.AddFieldError(err, "Unit", "unit must be one of pcs, kg, L")
	}
	if err != nil {
		if ve, ok := err.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return err
	}
	return nil
}

// Create adds a ledger entry. Names are unique per owner.
func (s *stockService) Create(ctx context.Context, ownerID uuid.UUID, params domain.CreateStockItemParams) (*domain.StockItem, error) {
	const op = "stock.create"

	if err := validateStockFields(op, params.Name, params.CostPriceCents, params.SellingPriceCents, params.AvailableQuantity, params.MinQuantity, params.Unit); err != nil {
		return nil, err
	}

	if _, err := s.store.Stock().GetStockItemByName(ctx, ownerID, params.Name); err == nil {
		return nil, ErrDuplicateStockName
	} else if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Internal(err, op, "failed to check for existing item")
	}

	unit := params.Unit
	if unit == "" {
		unit = domain.UnitPiece
	}

	item := &domain.StockItem{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              params.Name,
		CostPriceCents:    params.CostPriceCents,
		SellingPriceCents: params.SellingPriceCents,
		AvailableQuantity: params.AvailableQuantity,
		MinQuantity:       params.MinQuantity,
		Unit:              unit,
		Group:             params.Group,
		ItemCode:          params.ItemCode,
	}

	if err := s.store.Stock().CreateStockItem(ctx, item); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to save stock item")
	}

	s.logger.Info("stock item added", "name", item.Name, "owner_id", ownerID)
	return item, nil
}

// Get retrieves one ledger entry by id.
func (s *stockService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.StockItem, error) {
	item, err := s.store.Stock().GetStockItem(ctx, ownerID, id)
	if err != nil {
		return nil, ErrStockItemNotFound
	}
	return item, nil
}

// List returns the owner's ledger, optionally filtered by group.
func (s *stockService) List(ctx context.Context, ownerID uuid.UUID, group string) ([]domain.StockItem, error) {
	const op = "stock.list"

	if group != "" {
		items, err := s.store.Stock().ListStockItemsByGroup(ctx, ownerID, group)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to list stock items by group")
		}
		return items, nil
	}

	items, err := s.store.Stock().ListStockItems(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list stock items")
	}
	return items, nil
}

// Groups returns the distinct group labels in use.
func (s *stockService) Groups(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	groups, err := s.store.Stock().ListStockGroups(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, "stock.groups", "failed to list stock groups")
	}
	return groups, nil
}

// LowStock returns items whose available quantity fell below the minimum.
func (s *stockService) LowStock(ctx context.Context, ownerID uuid.UUID) ([]domain.StockItem, error) {
	items, err := s.store.Stock().ListLowStockItems(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, "stock.low", "failed to list low stock items")
	}
	return items, nil
}

// Update fully replaces the editable fields of a ledger entry.
func (s *stockService) Update(ctx context.Context, ownerID, id uuid.UUID, params domain.UpdateStockItemParams) (*domain.StockItem, error) {
	const op = "stock.update"

	if err := validateStockFields(op, params.Name, params.CostPriceCents, params.SellingPriceCents, params.AvailableQuantity, params.MinQuantity, params.Unit); err != nil {
		return nil, err
	}

	item, err := s.store.Stock().GetStockItem(ctx, ownerID, id)
	if err != nil {
		return nil, ErrStockItemNotFound
	}

	// Renames must not collide with another entry.
	if params.Name != item.Name {
		if _, err := s.store.Stock().GetStockItemByName(ctx, ownerID, params.Name); err == nil {
			return nil, ErrDuplicateStockName
		} else if !domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.Internal(err, op, "failed to check for existing item")
		}
	}

	unit := params.Unit
	if unit == "" {
		unit = item.Unit
	}

	item.Name = params.Name
	item.CostPriceCents = params.CostPriceCents
	item.SellingPriceCents = params.SellingPriceCents
	item.AvailableQuantity = params.AvailableQuantity
	item.MinQuantity = params.MinQuantity
	item.Unit = unit
	item.Group = params.Group
	item.ItemCode = params.ItemCode

	if err := s.store.Stock().UpdateStockItem(ctx, item); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to save stock item")
	}

	return item, nil
}

// Delete removes a ledger entry permanently.
func (s *stockService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.store.Stock().GetStockItem(ctx, ownerID, id); err != nil {
		return ErrStockItemNotFound
	}
	if err := s.store.Stock().DeleteStockItem(ctx, ownerID, id); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "stock.delete", "failed to delete stock item")
	}
	return nil
}
