package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/productspec/internal/domain"
	"github.com/utafrali/productspec/internal/store"
	"github.com/utafrali/productspec/pkg/httputil"
	"github.com/utafrali/productspec/pkg/validator"
)

// StoreHandler exposes the store actions as a JSON API.
type StoreHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStoreHandler creates a new store HTTP handler.
func NewStoreHandler(s *store.Store, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		store:  s,
		logger: logger,
	}
}

// --- Request DTOs ---

// SetProductRequest is the JSON request body for replacing the product.
type SetProductRequest struct {
	ID          string `json:"id" validate:"max=100"`
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// SetSpecsRequest is the JSON request body for replacing all specs.
type SetSpecsRequest struct {
	Specs []domain.SpecInput `json:"specs" validate:"dive"`
}

// SetVariantsRequest is the JSON request body for replacing all variants.
type SetVariantsRequest struct {
	Variants []domain.VariantInput `json:"variants" validate:"dive"`
}

// UpdateQuantityRequest is the JSON request body for setting a variant quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// GetSnapshot handles GET /api/v1/store
func (h *StoreHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, h.store.Snapshot())
}

// Clear handles DELETE /api/v1/store
func (h *StoreHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetProduct handles PUT /api/v1/store/product
func (h *StoreHandler) SetProduct(w http.ResponseWriter, r *http.Request) {
	var req SetProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product := domain.Product{ID: req.ID, Name: req.Name, Description: req.Description}
	if err := h.store.SetProduct(r.Context(), product); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.store.Product())
}

// SetSpecs handles PUT /api/v1/store/specs
func (h *StoreHandler) SetSpecs(w http.ResponseWriter, r *http.Request) {
	var req SetSpecsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.SetSpecs(r.Context(), req.Specs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.store.Specs())
}

// AddSpec handles POST /api/v1/store/specs
func (h *StoreHandler) AddSpec(w http.ResponseWriter, r *http.Request) {
	var req domain.SpecInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.AddSpec(r.Context(), req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: h.store.Specs()})
}

// SetVariants handles PUT /api/v1/store/variants
func (h *StoreHandler) SetVariants(w http.ResponseWriter, r *http.Request) {
	var req SetVariantsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.SetVariants(r.Context(), req.Variants); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.store.Variants())
}

// GenerateVariants handles POST /api/v1/store/variants/generate
func (h *StoreHandler) GenerateVariants(w http.ResponseWriter, r *http.Request) {
	if err := h.store.GenerateVariants(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.store.Variants())
}

// UpdateVariantQuantity handles PATCH /api/v1/store/variants/{id}/quantity.
// An unknown id is answered like a hit: the variants come back unchanged.
func (h *StoreHandler) UpdateVariantQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.UpdateVariantQuantity(r.Context(), id, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.store.Variants())
}
