package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/service"
)

// parseSessionEntryID reads a session entry ID as shown by "session list".
func parseSessionEntryID(input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(input), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Msg: quote(input) + " is not an entry ID"}
	}
	return id, nil
}

// minIDPrefix is the shortest ID prefix accepted for a history entry.
const minIDPrefix = 4

// resolveHistoryEntry finds an entry of the record for date. The reference
// can be:
//   - A 1-based position as shown by "history show"
//   - A full entry ID or a unique prefix of at least minIDPrefix characters
//
// A reference made only of digits is always a position, never an ID prefix.
// Positions are resolved against a fresh read, so they always refer to the
// record as it is now.
func resolveHistoryEntry(ctx context.Context, app *App, date, ref string) (*domain.HistoryRecord, *domain.HistoryEntry, error) {
	rec, err := app.History.Get(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	missing := &service.NotFoundError{What: "history entry", Key: rec.Date + " " + quote(ref)}

	if isDigits(ref) {
		pos, err := strconv.Atoi(ref)
		if err != nil || pos < 1 || pos > len(rec.Entries) {
			return nil, nil, missing
		}
		return rec, &rec.Entries[pos-1], nil
	}

	if i := rec.EntryIndex(ref); i >= 0 {
		return rec, &rec.Entries[i], nil
	}
	if utf8.RuneCountInString(ref) < minIDPrefix {
		return nil, nil, &domain.ValidationError{
			Field: "entry",
			Msg:   fmt.Sprintf("%s is too short; give a position or at least %d characters of the entry ID", quote(ref), minIDPrefix),
		}
	}

	var match *domain.HistoryEntry
	for i := range rec.Entries {
		e := &rec.Entries[i]
		if strings.HasPrefix(e.ID, ref) {
			if match != nil {
				return nil, nil, &domain.ValidationError{Field: "entry", Msg: quote(ref) + " matches more than one entry; use a longer prefix"}
			}
			match = e
		}
	}
	if match == nil {
		return nil, nil, missing
	}
	return rec, match, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
