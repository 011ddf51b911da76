package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// pgTimestamptzFromPtr converts an optional time into a nullable column value.
func pgTimestamptzFromPtr(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// ptrFromPgTimestamptz converts a nullable column value back into an optional time.
func ptrFromPgTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
