package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Theodlz/skyportal/internal/models"
)

// EventRepository reads the alert-event side of the store: notices, tags,
// localizations, the events that group them, and observation plans.
// Lookups pass sql.ErrNoRows through; the resolvers treat a missing
// related entity as "zero eligible users".
type EventRepository interface {
	GetNotice(ctx context.Context, id int64) (*models.AlertNotice, error)
	GetTag(ctx context.Context, id int64) (*models.EventTag, error)
	GetLocalization(ctx context.Context, id int64) (*models.Localization, error)
	GetEvent(ctx context.Context, dateObs time.Time) (*models.AlertEvent, error)
	GetPlan(ctx context.Context, id int64) (*models.ObservationPlan, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetNotice(ctx context.Context, id int64) (*models.AlertNotice, error) {
	const query = `SELECT id, dateobs, notice_type FROM alert_notices WHERE id = $1`
	var notice models.AlertNotice
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&notice.ID, &notice.DateObs, &notice.NoticeType); err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *eventRepository) GetTag(ctx context.Context, id int64) (*models.EventTag, error) {
	const query = `SELECT id, dateobs, text FROM event_tags WHERE id = $1`
	var tag models.EventTag
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&tag.ID, &tag.DateObs, &tag.Text); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *eventRepository) GetLocalization(ctx context.Context, id int64) (*models.Localization, error) {
	const query = `
		SELECT id, dateobs, notice_id, name, tags, properties
		FROM localizations WHERE id = $1
	`
	var (
		loc      models.Localization
		noticeID sql.NullInt64
		propsRaw []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&loc.ID, &loc.DateObs, &noticeID, &loc.Name, pq.Array(&loc.Tags), &propsRaw,
	)
	if err != nil {
		return nil, err
	}
	loc.NoticeID = noticeID.Int64
	if len(propsRaw) > 0 {
		if err := json.Unmarshal(propsRaw, &loc.Properties); err != nil {
			return nil, errors.Wrapf(err, "decode properties for localization %d", id)
		}
	}
	return &loc, nil
}

func (r *eventRepository) GetEvent(ctx context.Context, dateObs time.Time) (*models.AlertEvent, error) {
	const eventQuery = `SELECT dateobs, tags FROM alert_events WHERE dateobs = $1`
	event := &models.AlertEvent{}
	if err := r.db.QueryRowContext(ctx, eventQuery, dateObs).Scan(&event.DateObs, pq.Array(&event.Tags)); err != nil {
		return nil, err
	}

	const propsQuery = `SELECT data FROM event_properties WHERE dateobs = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, propsQuery, dateObs)
	if err != nil {
		return nil, errors.Wrap(err, "query event properties")
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var set models.PropertySet
		if err := json.Unmarshal(raw, &set); err != nil {
			return nil, errors.Wrap(err, "decode event property set")
		}
		event.PropertySets = append(event.PropertySets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const noticesQuery = `SELECT id, dateobs, notice_type FROM alert_notices WHERE dateobs = $1 ORDER BY id ASC`
	noticeRows, err := r.db.QueryContext(ctx, noticesQuery, dateObs)
	if err != nil {
		return nil, errors.Wrap(err, "query event notices")
	}
	defer noticeRows.Close()
	for noticeRows.Next() {
		var notice models.AlertNotice
		if err := noticeRows.Scan(&notice.ID, &notice.DateObs, &notice.NoticeType); err != nil {
			return nil, err
		}
		event.Notices = append(event.Notices, notice)
	}
	if err := noticeRows.Err(); err != nil {
		return nil, err
	}

	const locQuery = `SELECT id FROM localizations WHERE dateobs = $1 ORDER BY id ASC`
	locRows, err := r.db.QueryContext(ctx, locQuery, dateObs)
	if err != nil {
		return nil, errors.Wrap(err, "query event localizations")
	}
	defer locRows.Close()
	for locRows.Next() {
		var id int64
		if err := locRows.Scan(&id); err != nil {
			return nil, err
		}
		event.LocalizationIDs = append(event.LocalizationIDs, id)
	}
	if err := locRows.Err(); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *eventRepository) GetPlan(ctx context.Context, id int64) (*models.ObservationPlan, error) {
	const query = `SELECT id, dateobs FROM observation_plans WHERE id = $1`
	var plan models.ObservationPlan
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&plan.ID, &plan.DateObs); err != nil {
		return nil, err
	}
	return &plan, nil
}
