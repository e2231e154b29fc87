package models

// Resource types a user can configure notification preferences for.
const (
	ResourceSources                = "sources"
	ResourceFavoriteSources        = "favorite_sources"
	ResourceAlertEvents            = "alert_events"
	ResourceFollowupRequests       = "followup_requests"
	ResourceObservationPlans       = "observation_plans"
	ResourceMention                = "mention"
	ResourceAnalysisServices       = "analysis_services"
	ResourceGroupAdmissionRequests = "group_admission_requests"
)

// Delivery channel names, matching the keys used in preference profiles.
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelPhone    = "phone"
	ChannelWhatsApp = "whatsapp"
	ChannelSlack    = "slack"
)

// User is a snapshot of a recipient read from the store. Preferences are
// re-read for every trigger event and never cached across events.
type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	ContactEmail string      `json:"contact_email,omitempty"`
	ContactPhone string      `json:"contact_phone,omitempty"`
	Preferences  Preferences `json:"preferences"`
}

// Preferences is the notification-relevant projection of a user's settings.
type Preferences struct {
	Notifications    map[string]*ResourcePreference `json:"notifications,omitempty"`
	SlackIntegration *SlackIntegration              `json:"slack_integration,omitempty"`
}

// Resource returns the preference entry for a resource type, or nil.
func (p Preferences) Resource(resourceType string) *ResourcePreference {
	if p.Notifications == nil {
		return nil
	}
	return p.Notifications[resourceType]
}

// ResourcePreference holds a user's settings for one resource type. The
// sub-flags only apply to the resource types that define them.
type ResourcePreference struct {
	Active             bool `json:"active"`
	NewTags            bool `json:"new_tags,omitempty"`
	NewComments        bool `json:"new_comments,omitempty"`
	NewBotComments     bool `json:"new_bot_comments,omitempty"`
	NewClassifications bool `json:"new_classifications,omitempty"`
	NewSpectra         bool `json:"new_spectra,omitempty"`

	Email    *ChannelPreference `json:"email,omitempty"`
	SMS      *ChannelPreference `json:"sms,omitempty"`
	Phone    *ChannelPreference `json:"phone,omitempty"`
	WhatsApp *ChannelPreference `json:"whatsapp,omitempty"`
	Slack    *ChannelPreference `json:"slack,omitempty"`

	// Profiles are the named alert-event filter configurations; only the
	// alert_events entry carries them.
	Profiles map[string]AlertProfile `json:"profiles,omitempty"`
}

// Channel returns the channel sub-entry by name, or nil.
func (r *ResourcePreference) Channel(name string) *ChannelPreference {
	if r == nil {
		return nil
	}
	switch name {
	case ChannelEmail:
		return r.Email
	case ChannelSMS:
		return r.SMS
	case ChannelPhone:
		return r.Phone
	case ChannelWhatsApp:
		return r.WhatsApp
	case ChannelSlack:
		return r.Slack
	}
	return nil
}

// ChannelPreference gates one delivery channel for one resource type.
// TimeSlot is a [start_hour, end_hour] window; start > end wraps past
// midnight, and a [0, 0] slot matches every hour.
type ChannelPreference struct {
	Active   bool  `json:"active"`
	OnShift  bool  `json:"on_shift,omitempty"`
	TimeSlot []int `json:"time_slot,omitempty"`
}

// AlertProfile is one named alert-event filter configuration. A user is
// notified if any of their profiles matches; within a profile all specified
// filters must hold. Property filters are "name:value:op" triples with
// op one of lt, le, eq, ne, ge, gt.
type AlertProfile struct {
	NoticeTypes            []string `json:"notice_types,omitempty"`
	Tags                   []string `json:"tags,omitempty"`
	Properties             []string `json:"properties,omitempty"`
	LocalizationTags       []string `json:"localization_tags,omitempty"`
	LocalizationProperties []string `json:"localization_properties,omitempty"`
}

// SlackIntegration is the user's chat-webhook integration, validated against
// the deployment's expected URL preamble before use.
type SlackIntegration struct {
	Active bool   `json:"active"`
	URL    string `json:"url,omitempty"`
}
