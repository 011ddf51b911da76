package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type userStore struct {
	db querier
}

var _ domain.UserStore = (*userStore)(nil)

func (s *userStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, user_name, email, mobile_number, password_hash,
			company_name, business_address, pincode, logo_url, invoice_theme)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.UserName, user.Email, user.MobileNumber, user.PasswordHash,
		user.CompanyName, user.BusinessAddress, user.Pincode, user.LogoURL, user.InvoiceTheme,
	)
	if err != nil {
		return domain.Internal(err, "user.create", "failed to insert user")
	}
	return nil
}

func (s *userStore) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getUser(ctx, "WHERE id = $1", id)
}

func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, "WHERE email = $1", email)
}

func (s *userStore) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, user_name, email, mobile_number, password_hash,
			company_name, business_address, pincode, logo_url, invoice_theme,
			created_at, updated_at
		FROM users `+where,
		arg,
	).Scan(
		&user.ID, &user.UserName, &user.Email, &user.MobileNumber, &user.PasswordHash,
		&user.CompanyName, &user.BusinessAddress, &user.Pincode, &user.LogoURL, &user.InvoiceTheme,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.get", "user", "")
		}
		return nil, domain.Internal(err, "user.get", "failed to query user")
	}
	return &user, nil
}

func (s *userStore) UpdateUserProfile(ctx context.Context, user *domain.User) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET user_name = $2, company_name = $3, business_address = $4,
			pincode = $5, logo_url = $6, invoice_theme = $7, updated_at = now()
		WHERE id = $1`,
		user.ID, user.UserName, user.CompanyName, user.BusinessAddress,
		user.Pincode, user.LogoURL, user.InvoiceTheme,
	)
	if err != nil {
		return domain.Internal(err, "user.update", "failed to update user")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user.update", "user", user.ID.String())
	}
	return nil
}
