package processor

import (
	"testing"

	"github.com/Theodlz/skyportal/internal/models"
)

func TestParsePropertyFilter(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", "mstar:100:gt", false},
		{"valid with spaces", "mstar: 100 : gt", false},
		{"two parts", "mstar:100", true},
		{"four parts", "mstar:100:gt:extra", true},
		{"non numeric value", "mstar:abc:gt", true},
		{"unknown operator", "mstar:100:between", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePropertyFilter(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePropertyFilter(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestPropertiesMatchOperators(t *testing.T) {
	props := map[string]float64{"mstar": 150}

	tests := []struct {
		filter string
		want   bool
	}{
		{"mstar:100:gt", true},
		{"mstar:200:gt", false},
		{"mstar:150:ge", true},
		{"mstar:150:eq", true},
		{"mstar:150:ne", false},
		{"mstar:200:lt", true},
		{"mstar:150:le", true},
	}
	for _, tt := range tests {
		got, err := propertiesMatch(props, []string{tt.filter})
		if err != nil {
			t.Fatalf("propertiesMatch(%q) error: %v", tt.filter, err)
		}
		if got != tt.want {
			t.Errorf("propertiesMatch(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestPropertiesMatchAbsentNamePasses(t *testing.T) {
	props := map[string]float64{"mstar": 150}
	got, err := propertiesMatch(props, []string{"unknown_prop:10:gt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatal("filter on absent property should pass")
	}
}

func TestPropertiesMatchAllMustHold(t *testing.T) {
	props := map[string]float64{"mstar": 150, "q": 0.5}
	got, err := propertiesMatch(props, []string{"mstar:100:gt", "q:0.1:lt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Fatal("one failing filter should fail the whole set")
	}
}

func TestAnyPropertySetMatches(t *testing.T) {
	sets := []models.PropertySet{
		{"mstar": 50},
		{"mstar": 150},
	}
	got, err := anyPropertySetMatches(sets, []string{"mstar:100:gt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatal("second set satisfies the filter, want match")
	}

	got, err = anyPropertySetMatches(sets, []string{"mstar:200:gt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Fatal("no set satisfies the filter, want no match")
	}
}

func TestAnyPropertySetMatchesMalformedFilter(t *testing.T) {
	sets := []models.PropertySet{{"mstar": 150}}
	if _, err := anyPropertySetMatches(sets, []string{"broken"}); err == nil {
		t.Fatal("malformed filter should surface an error")
	}
}

func TestProfileMatchesNoticeTypes(t *testing.T) {
	profile := models.AlertProfile{NoticeTypes: []string{"LVC_INITIAL", "LVC_UPDATE"}}

	ok, err := profileMatches(profile, "LVC_INITIAL", nil, nil, nil)
	if err != nil || !ok {
		t.Fatalf("allowlisted notice type: got %v, %v", ok, err)
	}

	ok, err = profileMatches(profile, "FERMI_GBM", nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("notice type outside allowlist should not match")
	}
}

func TestProfileMatchesTags(t *testing.T) {
	profile := models.AlertProfile{Tags: []string{"GW", "BNS"}}

	ok, err := profileMatches(profile, "LVC_INITIAL", []string{"BNS"}, nil, nil)
	if err != nil || !ok {
		t.Fatalf("intersecting tags: got %v, %v", ok, err)
	}

	ok, err = profileMatches(profile, "LVC_INITIAL", []string{"GRB"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("disjoint tags should not match")
	}
}

func TestProfileMatchesEmptyProfile(t *testing.T) {
	ok, err := profileMatches(models.AlertProfile{}, "ANY", []string{"x"}, nil, nil)
	if err != nil || !ok {
		t.Fatalf("empty profile should match everything: got %v, %v", ok, err)
	}
}

func TestProfileMatchesLocalizationFilters(t *testing.T) {
	profile := models.AlertProfile{
		LocalizationTags:       []string{"preferred"},
		LocalizationProperties: []string{"area_90:500:lt"},
	}
	loc := &models.Localization{
		Tags:       []string{"preferred"},
		Properties: map[string]float64{"area_90": 120},
	}

	ok, err := profileMatches(profile, "LVC_INITIAL", nil, nil, loc)
	if err != nil || !ok {
		t.Fatalf("matching localization: got %v, %v", ok, err)
	}

	loc.Properties["area_90"] = 900
	ok, err = profileMatches(profile, "LVC_INITIAL", nil, nil, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("failing localization property should not match")
	}

	// Without a localization the localization filters do not apply.
	ok, err = profileMatches(profile, "LVC_INITIAL", nil, nil, nil)
	if err != nil || !ok {
		t.Fatalf("nil localization: got %v, %v", ok, err)
	}
}
