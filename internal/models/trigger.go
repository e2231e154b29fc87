package models

import "fmt"

// TargetKind identifies the kind of domain record a trigger event points at.
type TargetKind string

const (
	TargetAlertNotice           TargetKind = "AlertNotice"
	TargetLocalization          TargetKind = "Localization"
	TargetEventTag              TargetKind = "EventTag"
	TargetFollowupRequest       TargetKind = "FollowupRequest"
	TargetObservationPlan       TargetKind = "ObservationPlan"
	TargetComment               TargetKind = "Comment"
	TargetClassification        TargetKind = "Classification"
	TargetSpectrum              TargetKind = "Spectrum"
	TargetGroupAdmissionRequest TargetKind = "GroupAdmissionRequest"
)

// ParseTargetKind validates a wire-level target_class_name.
func ParseTargetKind(s string) (TargetKind, error) {
	switch kind := TargetKind(s); kind {
	case TargetAlertNotice, TargetLocalization, TargetEventTag,
		TargetFollowupRequest, TargetObservationPlan, TargetComment,
		TargetClassification, TargetSpectrum, TargetGroupAdmissionRequest:
		return kind, nil
	}
	return "", fmt.Errorf("unknown target class name %q", s)
}

// TriggerEvent is the input to the pipeline: one notification-worthy domain
// change reported by the web application. Immutable after creation.
type TriggerEvent struct {
	Kind         TargetKind `json:"target_class_name"`
	TargetID     int64      `json:"target_id"`
	AllocationID int64      `json:"allocation_id,omitempty"`
	ObjID        string     `json:"obj_id,omitempty"`
}
