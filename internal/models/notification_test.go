package models

import (
	"encoding/json"
	"testing"
)

func TestResourceTypeFor(t *testing.T) {
	tests := []struct {
		notificationType string
		want             string
	}{
		{TypeAlertEvents, ResourceAlertEvents},
		{TypeAlertEventsNewTag, ResourceAlertEvents},
		{TypeSources, ResourceSources},
		{TypeFavoriteSources, ResourceFavoriteSources},
		{TypeFollowupRequests, ResourceFollowupRequests},
		{TypeObservationPlans, ResourceObservationPlans},
		{TypeGroupAdmissionRequests, ResourceGroupAdmissionRequests},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResourceTypeFor(tt.notificationType); got != tt.want {
			t.Errorf("ResourceTypeFor(%q) = %q, want %q", tt.notificationType, got, tt.want)
		}
	}
}

func TestParseTargetKind(t *testing.T) {
	for _, valid := range []string{
		"AlertNotice", "Localization", "EventTag", "FollowupRequest",
		"ObservationPlan", "Comment", "Classification", "Spectrum",
		"GroupAdmissionRequest",
	} {
		if _, err := ParseTargetKind(valid); err != nil {
			t.Errorf("ParseTargetKind(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseTargetKind("Widget"); err == nil {
		t.Error("ParseTargetKind should reject unknown class names")
	}
}

func TestPreferencesDecode(t *testing.T) {
	raw := `{
		"notifications": {
			"alert_events": {
				"active": true,
				"sms": {"active": true, "on_shift": true, "time_slot": [22, 6]},
				"profiles": {
					"bns": {
						"notice_types": ["LVC_INITIAL"],
						"properties": ["mstar:100:gt"]
					}
				}
			},
			"favorite_sources": {"active": true, "new_comments": true}
		},
		"slack_integration": {"active": true, "url": "https://hooks.slack.com/services/X"}
	}`

	var prefs Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		t.Fatalf("unmarshal preferences: %v", err)
	}

	alerts := prefs.Resource(ResourceAlertEvents)
	if alerts == nil || !alerts.Active {
		t.Fatal("alert_events entry missing or inactive")
	}
	sms := alerts.Channel(ChannelSMS)
	if sms == nil || !sms.Active || !sms.OnShift {
		t.Fatalf("sms channel = %+v", sms)
	}
	if len(sms.TimeSlot) != 2 || sms.TimeSlot[0] != 22 || sms.TimeSlot[1] != 6 {
		t.Fatalf("time slot = %v, want [22 6]", sms.TimeSlot)
	}
	profile, ok := alerts.Profiles["bns"]
	if !ok || len(profile.NoticeTypes) != 1 || profile.Properties[0] != "mstar:100:gt" {
		t.Fatalf("profile = %+v", profile)
	}

	if alerts.Channel(ChannelEmail) != nil {
		t.Fatal("unset channel should be nil")
	}
	if prefs.Resource(ResourceSources) != nil {
		t.Fatal("unset resource should be nil")
	}
	if prefs.SlackIntegration == nil || !prefs.SlackIntegration.Active {
		t.Fatal("slack integration missing")
	}
}
