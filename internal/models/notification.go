package models

import (
	"strings"
	"time"
)

// Notification type strings persisted with each notification row.
const (
	TypeAlertEvents            = "alert_events"
	TypeAlertEventsNewTag      = "alert_events_new_tag"
	TypeSources                = "sources"
	TypeFavoriteSources        = "favorite_sources"
	TypeFollowupRequests       = "followup_requests"
	TypeObservationPlans       = "observation_plans"
	TypeGroupAdmissionRequests = "group_admission_requests"
)

// ResourceTypeFor maps a notification type to the resource type whose
// preferences gate its delivery. The favorite_sources check runs first
// because the plain sources match is a substring of it.
func ResourceTypeFor(notificationType string) string {
	switch {
	case notificationType == "":
		return ""
	case strings.Contains(notificationType, ResourceFavoriteSources):
		return ResourceFavoriteSources
	case strings.Contains(notificationType, ResourceAlertEvents):
		return ResourceAlertEvents
	case strings.Contains(notificationType, ResourceSources):
		return ResourceSources
	default:
		return notificationType
	}
}

// Notification is one persisted notification owed to one user. Rows are
// never mutated after creation; retention is handled elsewhere.
type Notification struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Type      string    `json:"notification_type"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryTarget is the self-contained unit handed to the dispatcher: the
// persisted notification plus a snapshot of the recipient and, for alert
// events, rendered summary content for rich channels. Immutable and
// channel-agnostic; every channel derives its own payload from it.
type DeliveryTarget struct {
	Notification
	User    User          `json:"user"`
	Content *AlertContent `json:"content,omitempty"`
}

// AlertContent is the rendered summary attached to alert-event targets.
type AlertContent struct {
	DateObs          time.Time `json:"dateobs"`
	NoticeType       string    `json:"notice_type,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	LocalizationName string    `json:"localization_name,omitempty"`
	NewTag           string    `json:"new_tag,omitempty"`
}
