package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWorkDate(t *testing.T) {
	d, err := NormalizeWorkDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "05-01-2024", d)

	d, err = NormalizeWorkDate(" 05-01-2024 ")
	require.NoError(t, err)
	assert.Equal(t, "05-01-2024", d)

	_, err = NormalizeWorkDate("31-02-2024")
	assert.Error(t, err)
}

func TestCompactWorkDate(t *testing.T) {
	assert.Equal(t, "05012024", CompactWorkDate("05-01-2024"))
}

func TestSortRecordsByDate_CalendarOrder(t *testing.T) {
	records := []*HistoryRecord{
		{Date: "01-02-2024"},
		{Date: "garbage"},
		{Date: "15-01-2024"},
		{Date: "05-01-2023"},
	}
	SortRecordsByDate(records)

	got := make([]string, 0, len(records))
	for _, r := range records {
		got = append(got, r.Date)
	}
	// A string sort would put 01-02-2024 first.
	assert.Equal(t, []string{"05-01-2023", "15-01-2024", "01-02-2024", "garbage"}, got)
}

func TestDisplayWorkDate(t *testing.T) {
	assert.Equal(t, "Fri, 5 Jan 2024", DisplayWorkDate("05-01-2024"))
	assert.Equal(t, "nope", DisplayWorkDate("nope"))
}

func TestDraftFieldKey(t *testing.T) {
	assert.Equal(t, "cotton-tracker-kg-collected", DraftKg.Key())
	assert.True(t, ValidDraftFields[DraftRate])
}
