package processor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Theodlz/skyportal/internal/models"
)

// Property filter operators: stored_value <op> filter_value.
var opOptions = map[string]func(stored, value float64) bool{
	"lt": func(s, v float64) bool { return s < v },
	"le": func(s, v float64) bool { return s <= v },
	"eq": func(s, v float64) bool { return s == v },
	"ne": func(s, v float64) bool { return s != v },
	"ge": func(s, v float64) bool { return s >= v },
	"gt": func(s, v float64) bool { return s > v },
}

type propertyFilter struct {
	name  string
	value float64
	op    func(stored, value float64) bool
}

// parsePropertyFilter splits a "name:value:operator" triple. A triple that
// does not split into exactly three parts, a non-numeric value, or an
// unknown operator is a fatal error for the resolver invocation.
func parsePropertyFilter(raw string) (propertyFilter, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return propertyFilter{}, fmt.Errorf("invalid property filter %q: must have 3 values", raw)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return propertyFilter{}, fmt.Errorf("invalid property filter value %q: %v", parts[1], err)
	}
	opName := strings.TrimSpace(parts[2])
	op, ok := opOptions[opName]
	if !ok {
		return propertyFilter{}, fmt.Errorf("invalid operator: %s", opName)
	}
	return propertyFilter{name: strings.TrimSpace(parts[0]), value: value, op: op}, nil
}

// propertiesMatch evaluates all filters against one property set (AND).
// A filter whose name is absent from the set passes.
func propertiesMatch(props map[string]float64, filters []string) (bool, error) {
	for _, raw := range filters {
		filter, err := parsePropertyFilter(raw)
		if err != nil {
			return false, err
		}
		stored, ok := props[filter.name]
		if !ok {
			continue
		}
		if !filter.op(stored, filter.value) {
			return false, nil
		}
	}
	return true, nil
}

// anyPropertySetMatches evaluates the filters against every property set:
// OR over sets, AND over filters within a set.
func anyPropertySetMatches(sets []models.PropertySet, filters []string) (bool, error) {
	for _, set := range sets {
		ok, err := propertiesMatch(set, filters)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// profileMatches checks one named profile against the incoming notice and
// its event. Each filter is skipped when the profile did not specify it;
// loc is nil for bare-notice triggers, in which case the localization
// filters do not apply.
func profileMatches(
	profile models.AlertProfile,
	noticeType string,
	eventTags []string,
	propertySets []models.PropertySet,
	loc *models.Localization,
) (bool, error) {
	if len(profile.NoticeTypes) > 0 && !contains(profile.NoticeTypes, noticeType) {
		return false, nil
	}
	if len(profile.Tags) > 0 && !intersects(eventTags, profile.Tags) {
		return false, nil
	}
	if len(profile.Properties) > 0 {
		ok, err := anyPropertySetMatches(propertySets, profile.Properties)
		if err != nil || !ok {
			return false, err
		}
	}
	if loc != nil {
		if len(profile.LocalizationTags) > 0 && !intersects(loc.Tags, profile.LocalizationTags) {
			return false, nil
		}
		if len(profile.LocalizationProperties) > 0 {
			ok, err := propertiesMatch(loc.Properties, profile.LocalizationProperties)
			if err != nil || !ok {
				return false, err
			}
		}
	}
	return true, nil
}
