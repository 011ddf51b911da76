package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
	"github.com/nithinvarma411/dhanapathrika/internal/middleware"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details any               `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// insufficientStockDetails is attached to conflict responses caused by a
// stock shortfall so clients can show the quantities involved.
type insufficientStockDetails struct {
	Item      string `json:"item"`
	Available int32  `json:"available"`
	Required  int32  `json:"required"`
}

// ErrorResponse writes err as a JSON error envelope. Validation errors carry
// per-field messages and stock shortfalls carry the quantities; internal
// errors are logged with their operation and shown as a generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)

	if code == domain.EINTERNAL {
		slog.Default().Error("request failed",
			"op", domain.ErrorOp(err),
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}

	body := errorBody{
		Code:    code,
		Message: domain.ErrorMessage(err),
		Fields:  domain.GetValidationFields(err),
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		body.Details = insufficientStockDetails{
			Item:      stockErr.Item,
			Available: stockErr.Available,
			Required:  stockErr.Required,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorCodeToHTTPStatus(code))
	json.NewEncoder(w).Encode(errorEnvelope{Error: body})
}

// NotFoundResponse writes a 404 error envelope.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, &domain.Error{Code: domain.ENOTFOUND, Message: "The requested resource could not be found."})
}

// UnauthorizedResponse writes a 401 error envelope.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, &domain.Error{Code: domain.EUNAUTHORIZED, Message: "A valid session is required."})
}

// InternalErrorResponse writes a 500 error envelope.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "handler", "unexpected error"))
}
