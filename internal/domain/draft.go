package domain

import (
	"strings"
	"time"
)

// DraftKeyPrefix namespaces scratch values for in-progress entry fields.
const DraftKeyPrefix = "cotton-tracker-"

// DraftField names a form field whose in-progress value is kept between runs.
type DraftField string

const (
	DraftName DraftField = "worker-name"
	DraftKg   DraftField = "kg-collected"
	DraftRate DraftField = "rate-per-kg"
)

// Key returns the namespaced storage key for the field.
func (f DraftField) Key() string {
	return DraftKeyPrefix + string(f)
}

// ValidDraftFields is the canonical set of accepted draft fields.
var ValidDraftFields = map[DraftField]bool{
	DraftName: true, DraftKg: true, DraftRate: true,
}

// draftAliases are the short names accepted on the command line and in config.
var draftAliases = map[string]DraftField{
	"name": DraftName,
	"kg":   DraftKg,
	"rate": DraftRate,
}

// ParseDraftField accepts a short name (name, kg, rate) or a full field name.
func ParseDraftField(s string) (DraftField, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := draftAliases[s]; ok {
		return f, nil
	}
	if f := DraftField(s); ValidDraftFields[f] {
		return f, nil
	}
	return "", invalid("draft", "unknown field %q (want name, kg or rate)", s)
}

// ShortName is the command-line name of the field.
func (f DraftField) ShortName() string {
	for short, field := range draftAliases {
		if field == f {
			return short
		}
	}
	return string(f)
}

// Draft is one saved field value.
type Draft struct {
	Field     DraftField
	Value     string
	UpdatedAt time.Time
}
