package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Theodlz/skyportal/internal/models"
)

// UserRepository answers the "who could be notified" queries the candidate
// processor runs per trigger event. Every call re-reads preferences from
// the store; snapshots are never cached across events.
type UserRepository interface {
	// ListAlertSubscribers returns users with alert_events notifications
	// active, optionally restricted to those opted into new-tag updates.
	ListAlertSubscribers(ctx context.Context, requireNewTags bool) ([]models.User, error)
	// ListResourceSubscribers returns users whose preferences have
	// active=true for the given resource type.
	ListResourceSubscribers(ctx context.Context, resourceType string) ([]models.User, error)
	// ListFavoriteSubscribers returns users who favorited the object and
	// have favorite_sources active plus the given sub-flag set. When
	// requireBotFlag is true the new_bot_comments flag must also be set.
	ListFavoriteSubscribers(ctx context.Context, objID, subFlag string, requireBotFlag bool) ([]models.User, error)
	// ListSourceSpectrumSubscribers returns users subscribed to generic
	// source spectrum notifications, excluding the given user ids.
	ListSourceSpectrumSubscribers(ctx context.Context, excludeIDs []int64) ([]models.User, error)
	// ListGroupAdmins returns the admins of a group regardless of their
	// notification preferences.
	ListGroupAdmins(ctx context.Context, groupID int64) ([]models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, contact_email, contact_phone, preferences`

func (r *userRepository) ListAlertSubscribers(ctx context.Context, requireNewTags bool) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (preferences #>> '{notifications,alert_events,active}')::boolean IS TRUE
	`
	if requireNewTags {
		query += ` AND (preferences #>> '{notifications,alert_events,new_tags}')::boolean IS TRUE`
	}
	return r.list(ctx, query)
}

func (r *userRepository) ListResourceSubscribers(ctx context.Context, resourceType string) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE (preferences #>> ARRAY['notifications', $1, 'active'])::boolean IS TRUE
	`
	return r.list(ctx, query, resourceType)
}

func (r *userRepository) ListFavoriteSubscribers(ctx context.Context, objID, subFlag string, requireBotFlag bool) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (preferences #>> '{notifications,favorite_sources,active}')::boolean IS TRUE
		  AND (preferences #>> ARRAY['notifications', 'favorite_sources', $2])::boolean IS TRUE
	`
	if requireBotFlag {
		query += ` AND (preferences #>> '{notifications,favorite_sources,new_bot_comments}')::boolean IS TRUE`
	}
	query += `
		  AND id IN (
			SELECT user_id FROM listings
			WHERE obj_id = $1 AND list_name = 'favorites'
		  )
	`
	return r.list(ctx, query, objID, subFlag)
}

func (r *userRepository) ListSourceSpectrumSubscribers(ctx context.Context, excludeIDs []int64) ([]models.User, error) {
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE (preferences #>> '{notifications,sources,active}')::boolean IS TRUE
		  AND (preferences #>> '{notifications,sources,new_spectra}')::boolean IS TRUE
		  AND NOT (id = ANY($1))
	`
	return r.list(ctx, query, pq.Array(excludeIDs))
}

func (r *userRepository) ListGroupAdmins(ctx context.Context, groupID int64) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id IN (
			SELECT user_id FROM group_users
			WHERE group_id = $1 AND admin IS TRUE
		)
	`
	return r.list(ctx, query, groupID)
}

func (r *userRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(scanner interface {
	Scan(dest ...interface{}) error
}) (models.User, error) {
	var (
		user         models.User
		contactEmail sql.NullString
		contactPhone sql.NullString
		prefsRaw     []byte
	)
	if err := scanner.Scan(&user.ID, &user.Username, &contactEmail, &contactPhone, &prefsRaw); err != nil {
		return models.User{}, err
	}
	user.ContactEmail = contactEmail.String
	user.ContactPhone = contactPhone.String
	if len(prefsRaw) > 0 {
		if err := json.Unmarshal(prefsRaw, &user.Preferences); err != nil {
			return models.User{}, errors.Wrapf(err, "decode preferences for user %d", user.ID)
		}
	}
	return user, nil
}
