// Package errmap attributes a free-text rejection from the appointment service
// to the form inputs it most likely concerns.
package errmap

import (
	"strings"

	"frontdesk/pkg/model"
)

// Rule marks Fields when the lower-cased message contains every substring of
// All and at least one substring of Any. An empty list is satisfied trivially.
type Rule struct {
	All    []string
	Any    []string
	Fields []string
}

func (r Rule) matches(lower string) bool {
	for _, s := range r.All {
		if !strings.Contains(lower, s) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, s := range r.Any {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

var lookupFailures = []string{"not found", "does not exist", "inactive"}

// DefaultRules is the attribution table used by the booking and reschedule
// dialogs. The bare digit rule catches messages that quote clinic hours.
var DefaultRules = []Rule{
	{
		Any:    []string{"overlap", "slot not available", "already has an appointment", "slot overlaps"},
		Fields: []string{model.FieldSlotStart, model.FieldSlotEnd},
	},
	{
		All:    []string{"patient"},
		Any:    lookupFailures,
		Fields: []string{model.FieldPatientID},
	},
	{
		All:    []string{"doctor"},
		Any:    lookupFailures,
		Fields: []string{model.FieldDoctorID},
	},
	{
		Any:    []string{"department"},
		Fields: []string{model.FieldDepartment},
	},
	{
		Any:    []string{"lead time", "2 hour", "at least 2"},
		Fields: []string{model.FieldSlotStart},
	},
	{
		Any:    []string{"clinic hours", "9", "6"},
		Fields: []string{model.FieldSlotStart, model.FieldSlotEnd},
	},
}

type Mapper struct {
	rules []Rule
}

// New returns a mapper over rules, or over DefaultRules when none are given.
func New(rules ...Rule) *Mapper {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Mapper{rules: append([]Rule(nil), rules...)}
}

// Map applies every matching rule in order; each marked field receives the
// original message unchanged.
func (m *Mapper) Map(message string) model.FieldErrors {
	fieldErrors := model.FieldErrors{}
	if strings.TrimSpace(message) == "" {
		return fieldErrors
	}

	lower := strings.ToLower(message)
	for _, rule := range m.rules {
		if !rule.matches(lower) {
			continue
		}
		for _, field := range rule.Fields {
			fieldErrors.Set(field, message)
		}
	}
	return fieldErrors
}

// MapReschedule maps message onto the reschedule inputs. Attributions to
// fields the reschedule form does not have are dropped.
func (m *Mapper) MapReschedule(message string) model.FieldErrors {
	return m.Map(message).Remap(model.RescheduleFields)
}

var defaultMapper = New()

func Map(message string) model.FieldErrors {
	return defaultMapper.Map(message)
}
