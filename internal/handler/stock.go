package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
	"github.com/nithinvarma411/dhanapathrika/internal/export"
)

type stockItemRequest struct {
	Name              string `json:"name" validate:"required"`
	CostPriceCents    int64  `json:"cost_price_cents" validate:"gt=0"`
	SellingPriceCents int64  `json:"selling_price_cents" validate:"gt=0"`
	AvailableQuantity int32  `json:"available_quantity" validate:"gte=0"`
	MinQuantity       int32  `json:"min_quantity" validate:"gte=0"`
	Unit              string `json:"unit"`
	Group             string `json:"group"`
	ItemCode          string `json:"item_code"`
}

type stockItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	CostPriceCents    int64     `json:"cost_price_cents"`
	SellingPriceCents int64     `json:"selling_price_cents"`
	AvailableQuantity int32     `json:"available_quantity"`
	MinQuantity       int32     `json:"min_quantity"`
	Unit              string    `json:"unit"`
	Group             string    `json:"group,omitempty"`
	ItemCode          string    `json:"item_code,omitempty"`
	LowStock          bool      `json:"low_stock"`
}

func stockItemFromDomain(item *domain.StockItem) stockItemResponse {
	return stockItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		CostPriceCents:    item.CostPriceCents,
		SellingPriceCents: item.SellingPriceCents,
		AvailableQuantity: item.AvailableQuantity,
		MinQuantity:       item.MinQuantity,
		Unit:              string(item.Unit),
		Group:             item.Group,
		ItemCode:          item.ItemCode,
		LowStock:          item.LowStock(),
	}
}

func stockListFromDomain(items []domain.StockItem) []stockItemResponse {
	out := make([]stockItemResponse, len(items))
	for i := range items {
		out[i] = stockItemFromDomain(&items[i])
	}
	return out
}

// CreateStockItem adds an entry to the caller's stock ledger.
func (h *Handler) CreateStockItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req stockItemRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	item, err := h.stock.Create(r.Context(), owner, domain.CreateStockItemParams{
		Name:              req.Name,
		CostPriceCents:    req.CostPriceCents,
		SellingPriceCents: req.SellingPriceCents,
		AvailableQuantity: req.AvailableQuantity,
		MinQuantity:       req.MinQuantity,
		Unit:              domain.Unit(req.Unit),
		Group:             req.Group,
		ItemCode:          req.ItemCode,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, stockItemFromDomain(item))
}

// ListStockItems returns the ledger, optionally filtered by ?group=.
func (h *Handler) ListStockItems(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	items, err := h.stock.List(r.Context(), owner, r.URL.Query().Get("group"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"items": stockListFromDomain(items)})
}

// GetStockItem returns a single ledger entry.
func (h *Handler) GetStockItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	item, err := h.stock.Get(r.Context(), owner, id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, stockItemFromDomain(item))
}

// UpdateStockItem replaces the editable fields of a ledger entry.
func (h *Handler) UpdateStockItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req stockItemRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	item, err := h.stock.Update(r.Context(), owner, id, domain.UpdateStockItemParams{
		Name:              req.Name,
		CostPriceCents:    req.CostPriceCents,
		SellingPriceCents: req.SellingPriceCents,
		AvailableQuantity: req.AvailableQuantity,
		MinQuantity:       req.MinQuantity,
		Unit:              domain.Unit(req.Unit),
		Group:             req.Group,
		ItemCode:          req.ItemCode,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, stockItemFromDomain(item))
}

// DeleteStockItem removes a ledger entry.
func (h *Handler) DeleteStockItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.stock.Delete(r.Context(), owner, id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}

// ListStockGroups returns the distinct group labels in use.
func (h *Handler) ListStockGroups(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	groups, err := h.stock.Groups(r.Context(), owner)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	h.respond(w, http.StatusOK, map[string]any{"groups": groups})
}

// ListLowStockItems returns entries below their minimum quantity.
func (h *Handler) ListLowStockItems(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	items, err := h.stock.LowStock(r.Context(), owner)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"items": stockListFromDomain(items)})
}

// ExportStock streams the full ledger as an xlsx workbook.
func (h *Handler) ExportStock(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	items, err := h.stock.List(r.Context(), owner, "")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	filename := fmt.Sprintf("stock-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteStockWorkbook(w, items); err != nil {
		h.logger.Error("failed to write stock export", "error", err)
	}
}
