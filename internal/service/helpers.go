package service

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/cotton/internal/domain"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func quote(s string) string {
	return strconv.Quote(s)
}

// creationOrder reverses a most-recent-first session listing in place.
func creationOrder(entries []*domain.SessionEntry) []*domain.SessionEntry {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// matchesSearch reports whether the record's date or any worker name
// contains term, ignoring case.
func matchesSearch(r *domain.HistoryRecord, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Date), term) {
		return true
	}
	for _, e := range r.Entries {
		if strings.Contains(strings.ToLower(e.Name), term) {
			return true
		}
	}
	return false
}
