package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type sessionStore struct {
	db querier
}

var _ domain.SessionStore = (*sessionStore)(nil)

func (s *sessionStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		session.Token, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return domain.Internal(err, "session.create", "failed to insert session")
	}
	return nil
}

func (s *sessionStore) GetSessionUserID(ctx context.Context, token string, now time.Time) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `
		SELECT user_id FROM sessions
		WHERE token = $1 AND expires_at > $2`,
		token, now,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.NotFound("session.get", "session", "")
		}
		return uuid.Nil, domain.Internal(err, "session.get", "failed to query session")
	}
	return userID, nil
}

func (s *sessionStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return domain.Internal(err, "session.delete", "failed to delete session")
	}
	return nil
}
