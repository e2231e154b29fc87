package models

import "time"

// Read-side projections of the domain entities the processor resolves
// trigger events against. All are owned by the web application; the
// pipeline only ever reads them.

// PropertySet is one set of derived numeric properties of an alert event.
// An event accumulates one set per processed skymap/notice.
type PropertySet map[string]float64

// AlertEvent groups everything known about one astronomical alert,
// keyed by its observation time.
type AlertEvent struct {
	DateObs         time.Time
	Tags            []string
	PropertySets    []PropertySet
	Notices         []AlertNotice
	LocalizationIDs []int64
}

// Notice returns the event's notice with the given id, or nil.
func (e *AlertEvent) Notice(id int64) *AlertNotice {
	for i := range e.Notices {
		if e.Notices[i].ID == id {
			return &e.Notices[i]
		}
	}
	return nil
}

// AlertNotice is one machine-readable circular received for an event.
type AlertNotice struct {
	ID         int64
	DateObs    time.Time
	NoticeType string
}

// Localization is a sky-localization derived from a notice, with its own
// derived tags and numeric properties.
type Localization struct {
	ID         int64
	DateObs    time.Time
	NoticeID   int64
	Name       string
	Tags       []string
	Properties map[string]float64
}

// EventTag is a label attached to an alert event.
type EventTag struct {
	ID      int64
	DateObs time.Time
	Text    string
}

// FollowupRequest is a request for follow-up observations of an object.
type FollowupRequest struct {
	ID           int64
	ObjID        string
	Status       string
	AllocationID int64
}

// Allocation is an observing-time allocation; visibility is scoped to the
// members of its group.
type Allocation struct {
	ID      int64
	GroupID int64
}

// ObservationPlan is a scheduled observing plan for an alert event.
type ObservationPlan struct {
	ID      int64
	DateObs time.Time
}

// Comment is a user or bot comment on an object.
type Comment struct {
	ID    int64
	ObjID string
	Bot   bool
}

// Classification is a taxonomy classification of an object.
type Classification struct {
	ID    int64
	ObjID string
}

// Spectrum is an uploaded spectrum of an object.
type Spectrum struct {
	ID    int64
	ObjID string
}

// GroupAdmissionRequest is a user's request to join a group.
type GroupAdmissionRequest struct {
	ID        int64
	GroupID   int64
	Username  string
	GroupName string
}
