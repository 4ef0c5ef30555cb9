package domain

import (
	"sort"
	"strings"
	"time"
)

// WorkDateLayout is the canonical DD-MM-YYYY form used as the history key.
const WorkDateLayout = "02-01-2006"

// isoDateLayout is accepted on input for convenience.
const isoDateLayout = "2006-01-02"

// ParseWorkDate parses a DD-MM-YYYY or YYYY-MM-DD date.
func ParseWorkDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid("date", "date is required")
	}
	if t, err := time.Parse(WorkDateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, invalid("date", "%q is not a DD-MM-YYYY date", s)
}

// NormalizeWorkDate returns s in DD-MM-YYYY form.
func NormalizeWorkDate(s string) (string, error) {
	t, err := ParseWorkDate(s)
	if err != nil {
		return "", err
	}
	return FormatWorkDate(t), nil
}

// FormatWorkDate formats t as DD-MM-YYYY.
func FormatWorkDate(t time.Time) string {
	return t.Format(WorkDateLayout)
}

// CompactWorkDate strips separators: "05-01-2024" becomes "05012024".
func CompactWorkDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// SortRecordsByDate orders records by calendar date, oldest first. Records
// with unparseable dates sort last, by key.
func SortRecordsByDate(records []*HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, ei := ParseWorkDate(records[i].Date)
		tj, ej := ParseWorkDate(records[j].Date)
		switch {
		case ei != nil && ej != nil:
			return records[i].Date < records[j].Date
		case ei != nil:
			return false
		case ej != nil:
			return true
		}
		return ti.Before(tj)
	})
}

// DisplayWorkDate renders a DD-MM-YYYY date as "Fri, 5 Jan 2024". Unparseable
// input is returned unchanged.
func DisplayWorkDate(date string) string {
	t, err := ParseWorkDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon, 2 Jan 2006")
}
