package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/auth"
	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

// sessionTTL bounds how long a login session stays valid.
const sessionTTL = 7 * 24 * time.Hour

type userService struct {
	store  domain.Store
	logger *slog.Logger
}

// Compile-time check that userService implements domain.UserService.
var _ domain.UserService = (*userService)(nil)

// NewUserService creates the login/profile service.
func NewUserService(store domain.Store, logger *slog.Logger) domain.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{store: store, logger: logger}
}

// Login verifies credentials and mints an opaque bearer session. Credential
// failures are indistinguishable from unknown accounts.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("user.login", "Email", "email and password are required")
	}

	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, domain.Internal(err, "user.login", "failed to generate session token")
	}

	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.store.Sessions().CreateSession(ctx, session); err != nil {
		return nil, domain.Internal(err, "user.login", "failed to save session")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return session, nil
}

// Logout removes the session; unknown tokens are not an error.
func (s *userService) Logout(ctx context.Context, token string) error {
	if err := s.store.Sessions().DeleteSession(ctx, token); err != nil {
		return domain.Internal(err, "user.logout", "failed to delete session")
	}
	return nil
}

// GetProfile returns the owner's account and company profile.
func (s *userService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*domain.User, error) {
	user, err := s.store.Users().GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile replaces the editable company profile fields.
func (s *userService) UpdateProfile(ctx context.Context, ownerID uuid.UUID, params domain.UpdateProfileParams) (*domain.User, error) {
	const op = "user.update_profile"

	var verr error
	if params.UserName == "" {
		verr = domain.AddFieldError(verr, "UserName", "user name is required")
	}
	if params.CompanyName == "" {
		verr = domain.AddFieldError(verr, "CompanyName", "company name is required")
	}
	if params.BusinessAddress == "" {
		verr = domain.AddFieldError(verr, "BusinessAddress", "business address is required")
	}
	if params.Pincode == "" {
		verr = domain.AddFieldError(verr, "Pincode", "pincode is required")
	}
	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return nil, verr
	}

	user, err := s.store.Users().GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.UserName = params.UserName
	user.CompanyName = params.CompanyName
	user.BusinessAddress = params.BusinessAddress
	user.Pincode = params.Pincode
	if params.LogoURL != "" {
		user.LogoURL = params.LogoURL
	}
	if params.InvoiceTheme != "" {
		user.InvoiceTheme = params.InvoiceTheme
	}

	if err := s.store.Users().UpdateUserProfile(ctx, user); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to save profile")
	}

	return user, nil
}

// generateSessionToken generates a cryptographically secure session token.
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
