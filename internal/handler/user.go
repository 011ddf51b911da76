package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies credentials and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	session, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout invalidates the caller's session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		UnauthorizedResponse(w, r)
		return
	}

	if err := h.users.Logout(r.Context(), token); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}

type profileResponse struct {
	UserName        string `json:"user_name"`
	Email           string `json:"email"`
	MobileNumber    string `json:"mobile_number,omitempty"`
	CompanyName     string `json:"company_name"`
	BusinessAddress string `json:"business_address"`
	Pincode         string `json:"pincode"`
	LogoURL         string `json:"logo_url,omitempty"`
	InvoiceTheme    string `json:"invoice_theme"`
}

func profileFromUser(user *domain.User) profileResponse {
	return profileResponse{
		UserName:        user.UserName,
		Email:           user.Email,
		MobileNumber:    user.MobileNumber,
		CompanyName:     user.CompanyName,
		BusinessAddress: user.BusinessAddress,
		Pincode:         user.Pincode,
		LogoURL:         user.LogoURL,
		InvoiceTheme:    user.InvoiceTheme,
	}
}

// GetProfile returns the caller's account and company details.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.GetProfile(r.Context(), owner)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, profileFromUser(user))
}

type updateProfileRequest struct {
	UserName        string `json:"user_name" validate:"required"`
	CompanyName     string `json:"company_name" validate:"required"`
	BusinessAddress string `json:"business_address" validate:"required"`
	Pincode         string `json:"pincode" validate:"required"`
	LogoURL         string `json:"logo_url"`
	InvoiceTheme    string `json:"invoice_theme"`
}

// UpdateProfile replaces the editable company profile fields.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateProfileRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), owner, domain.UpdateProfileParams{
		UserName:        req.UserName,
		CompanyName:     req.CompanyName,
		BusinessAddress: req.BusinessAddress,
		Pincode:         req.Pincode,
		LogoURL:         req.LogoURL,
		InvoiceTheme:    req.InvoiceTheme,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, profileFromUser(user))
}
