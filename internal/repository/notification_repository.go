package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Theodlz/skyportal/internal/models"
)

// NotificationRepository is the only write surface of the pipeline.
type NotificationRepository interface {
	Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error)
}

type CreateNotificationParams struct {
	UserID int64
	Text   string
	Type   string
	URL    string
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error) {
	const query = `
		INSERT INTO user_notifications (id, user_id, text, notification_type, url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	notif := models.Notification{
		ID:     uuid.NewString(),
		UserID: params.UserID,
		Text:   params.Text,
		Type:   params.Type,
		URL:    params.URL,
	}
	row := r.db.QueryRowContext(ctx, query, notif.ID, notif.UserID, notif.Text, notif.Type, notif.URL)
	if err := row.Scan(&notif.CreatedAt); err != nil {
		return models.Notification{}, err
	}
	return notif, nil
}
