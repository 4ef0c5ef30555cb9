package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLen = 2
	MaxRate    = 1000.0
	// MaxEditKg bounds kg on edits. New entries take any non-negative kg
	// produced by the expression evaluator.
	MaxEditKg = 1000.0
)

// SessionEntry is one worker's collection for the open work date, not yet
// committed to history.
type SessionEntry struct {
	ID        int64
	Name      string
	Kg        float64
	Rate      float64
	Total     float64
	Date      string
	Timestamp time.Time
}

// SessionWorkDate returns the work date every entry shares. It returns ""
// for an empty session and a ValidationError when the entries span several
// dates.
func SessionWorkDate(entries []*SessionEntry) (string, error) {
	var dates []string
	for _, e := range entries {
		if !slices.Contains(dates, e.Date) {
			dates = append(dates, e.Date)
		}
	}
	switch len(dates) {
	case 0:
		return "", nil
	case 1:
		return dates[0], nil
	}
	slices.SortFunc(dates, func(a, b string) int {
		ta, ea := ParseWorkDate(a)
		tb, eb := ParseWorkDate(b)
		if ea != nil || eb != nil {
			return strings.Compare(a, b)
		}
		return ta.Compare(tb)
	})
	return "", &ValidationError{
		Field: "date",
		Msg:   "the session holds entries for " + strings.Join(dates, ", ") + "; name the date to complete",
	}
}

// EntryUpdate carries the editable fields of an entry.
type EntryUpdate struct {
	Name string
	Kg   float64
	Rate float64
}

// NewSessionEntry validates the inputs and builds an entry with its total.
// kg is expected to come from the expression evaluator, already rounded.
func NewSessionEntry(name string, kg, rate float64, date string, now time.Time) (*SessionEntry, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if !(kg >= 0) {
		return nil, invalid("kg", "must not be negative")
	}
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}
	d, err := NormalizeWorkDate(date)
	if err != nil {
		return nil, err
	}
	return &SessionEntry{
		Name:      name,
		Kg:        kg,
		Rate:      rate,
		Total:     LineTotal(kg, rate),
		Date:      d,
		Timestamp: now,
	}, nil
}

// Apply replaces the editable fields, recomputes the total and refreshes
// the timestamp. The entry is unchanged when validation fails.
func (e *SessionEntry) Apply(u EntryUpdate, now time.Time) error {
	u, err := u.Validate()
	if err != nil {
		return err
	}
	e.Name = u.Name
	e.Kg = u.Kg
	e.Rate = u.Rate
	e.Total = LineTotal(u.Kg, u.Rate)
	e.Timestamp = now
	return nil
}

// Validate checks an edit and returns it with the name trimmed.
func (u EntryUpdate) Validate() (EntryUpdate, error) {
	name, err := ValidateName(u.Name)
	if err != nil {
		return u, err
	}
	u.Name = name
	if !(u.Kg > 0) || u.Kg > MaxEditKg {
		return u, invalid("kg", "must be greater than 0 and at most %g", MaxEditKg)
	}
	if err := ValidateRate(u.Rate); err != nil {
		return u, err
	}
	return u, nil
}

// ValidateName trims name and checks its length in characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "worker name is required")
	}
	if utf8.RuneCountInString(name) < MinNameLen {
		return "", invalid("name", "must be at least %d characters", MinNameLen)
	}
	return name, nil
}

// ValidateRate checks rate is in (0, MaxRate].
func ValidateRate(rate float64) error {
	if !(rate > 0) || rate > MaxRate {
		return invalid("rate", "must be greater than 0 and at most %g", MaxRate)
	}
	return nil
}
