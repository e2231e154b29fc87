package repository

import (
	"context"
	"database/sql"
	"time"
)

// ShiftRepository answers the on-shift check the dispatcher's time gate
// runs before sending voice, SMS, and WhatsApp messages. This is the only
// store access the dispatcher performs, and it is read-only.
type ShiftRepository interface {
	// UserOnShift reports whether the user has a shift spanning the given
	// instant.
	UserOnShift(ctx context.Context, userID int64, at time.Time) (bool, error)
}

type shiftRepository struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) UserOnShift(ctx context.Context, userID int64, at time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM shifts s
			JOIN shift_users su ON su.shift_id = s.id
			WHERE su.user_id = $1 AND s.start_date <= $2 AND s.end_date >= $2
		)
	`
	var onShift bool
	if err := r.db.QueryRowContext(ctx, query, userID, at).Scan(&onShift); err != nil {
		return false, err
	}
	return onShift, nil
}
