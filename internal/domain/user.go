package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the business account that owns stock and invoices. All entities in
// the system are scoped to a user.
type User struct {
	ID              uuid.UUID
	UserName        string
	Email           string
	MobileNumber    string
	PasswordHash    string
	CompanyName     string
	BusinessAddress string
	Pincode         string
	LogoURL         string
	InvoiceTheme    string // display theme for rendered invoices
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultInvoiceTheme is applied to accounts that never picked one.
const DefaultInvoiceTheme = "classic"

// Session is an opaque bearer token resolving to a user.
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// UserStore is the persistence contract for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUserProfile(ctx context.Context, user *User) error
}

// SessionStore persists bearer sessions for the auth middleware.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionUserID(ctx context.Context, token string, now time.Time) (uuid.UUID, error)
	DeleteSession(ctx context.Context, token string) error
}

// UserService handles login sessions and the company profile. Everything
// else about authentication (signup flows, OTP, password reset) lives with
// external collaborators.
type UserService interface {
	// Login verifies credentials and mints a bearer session.
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error

	GetProfile(ctx context.Context, ownerID uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, ownerID uuid.UUID, params UpdateProfileParams) (*User, error)
}

// UpdateProfileParams contains the editable company profile fields.
type UpdateProfileParams struct {
	UserName        string
	CompanyName     string
	BusinessAddress string
	Pincode         string
	LogoURL         string
	InvoiceTheme    string
}
