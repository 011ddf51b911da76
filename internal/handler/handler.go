package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
	"github.com/nithinvarma411/dhanapathrika/internal/middleware"
)

// Handler serves the JSON API. All money amounts on the wire are integer
// cents and all IDs are UUIDs.
type Handler struct {
	users    domain.UserService
	stock    domain.StockService
	invoices domain.InvoiceService
	logger   *slog.Logger
	validate *validator.Validate
}

// New creates the API handler.
func New(users domain.UserService, stock domain.StockService, invoices domain.InvoiceService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		users:    users,
		stock:    stock,
		invoices: invoices,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// respond writes v as a JSON response with the given status.
func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.logger.Error("failed to encode response", "error", err)
		}
	}
}

// decode parses the request body into v and runs struct validation. Failures
// come back as field-level validation errors.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("handler.decode", "request body is not valid JSON")
	}

	if err := h.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.Invalid("handler.decode", "request body failed validation")
		}
		var verr error
		for _, fe := range fieldErrs {
			verr = domain.AddFieldError(verr, fe.Field(), validationMessage(fe))
		}
		return verr
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ownerID pulls the authenticated account from the request context. Routes
// are registered behind the auth middleware, so a missing value is a wiring
// bug rather than a client error.
func ownerID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		return uuid.Nil, domain.Unauthorized("handler.auth", "A valid session is required.")
	}
	return id, nil
}

// pathUUID parses a UUID path segment.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("handler.path", fmt.Sprintf("%s is not a valid UUID", name))
	}
	return id, nil
}
