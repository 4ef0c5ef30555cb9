package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/cotton/internal/calc"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
	"github.com/alexanderramin/cotton/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	db       *sql.DB
	sessions SessionService
	history  HistoryService
	drafts   DraftService
	sessRepo repository.SessionRepo
	histRepo repository.HistoryRepo
}

func setupServices(t *testing.T) testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	sessRepo := repository.NewSQLiteSessionRepo(database)
	return testServices{
		db:       database,
		sessions: NewSessionService(sessRepo, uow),
		history:  NewHistoryService(uow),
		drafts: NewDraftService(repository.NewSQLiteDraftRepo(database),
			[]domain.DraftField{domain.DraftName, domain.DraftKg, domain.DraftRate}),
		sessRepo: sessRepo,
		histRepo: repository.NewSQLiteHistoryRepo(database),
	}
}

func addEntry(t *testing.T, svc SessionService, name, kg string, rate float64) *SessionView {
	t.Helper()
	return addEntryOn(t, svc, name, kg, rate, testutil.TestDate)
}

func addEntryOn(t *testing.T, svc SessionService, name, kg string, rate float64, date string) *SessionView {
	t.Helper()
	view, err := svc.AddEntry(context.Background(), AddEntryInput{
		Name: name, KgExpr: kg, Rate: rate, Date: date,
	})
	require.NoError(t, err)
	return view
}

func TestAddEntry_EvaluatesKgAndReturnsStats(t *testing.T) {
	s := setupServices(t)

	addEntry(t, s.sessions, "Asha", "10", 50)
	view := addEntry(t, s.sessions, "  Ravi  ", "12 + 8.5", 8)

	require.Len(t, view.Entries, 2)
	latest := view.Entries[0]
	assert.Equal(t, "Ravi", latest.Name, "most recent first, name trimmed")
	assert.Equal(t, 20.5, latest.Kg)
	assert.Equal(t, 164.0, latest.Total)
	assert.Equal(t, testutil.TestDate, latest.Date)

	assert.Equal(t, domain.Totals{Workers: 2, Kg: 30.5, Amount: 664}, view.Stats)
}

func TestAddEntry_ISODateNormalized(t *testing.T) {
	s := setupServices(t)

	view, err := s.sessions.AddEntry(context.Background(), AddEntryInput{
		Name: "Asha", KgExpr: "3", Rate: 10, Date: "2024-01-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "05-01-2024", view.Entries[0].Date)
}

func TestAddEntry_ValidationLeavesSessionUntouched(t *testing.T) {
	tests := []struct {
		name  string
		in    AddEntryInput
		field string
	}{
		{"short name", AddEntryInput{Name: " A ", KgExpr: "5", Rate: 10, Date: testutil.TestDate}, "name"},
		{"letters in kg", AddEntryInput{Name: "Asha", KgExpr: "abc", Rate: 10, Date: testutil.TestDate}, "kg"},
		{"division by zero", AddEntryInput{Name: "Asha", KgExpr: "1/0", Rate: 10, Date: testutil.TestDate}, "kg"},
		{"negative kg", AddEntryInput{Name: "Asha", KgExpr: "-5", Rate: 10, Date: testutil.TestDate}, "kg"},
		{"zero rate", AddEntryInput{Name: "Asha", KgExpr: "5", Rate: 0, Date: testutil.TestDate}, "rate"},
		{"rate too high", AddEntryInput{Name: "Asha", KgExpr: "5", Rate: 1000.01, Date: testutil.TestDate}, "rate"},
		{"missing date", AddEntryInput{Name: "Asha", KgExpr: "5", Rate: 10}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServices(t)

			_, err := s.sessions.AddEntry(context.Background(), tt.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			view, err := s.sessions.List(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, view.Entries)
		})
	}
}

func TestAddEntry_KgErrorsKeepEvaluatorCause(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.sessions.AddEntry(ctx, AddEntryInput{Name: "Asha", KgExpr: "2*x", Rate: 10, Date: testutil.TestDate})
	assert.ErrorIs(t, err, calc.ErrInvalidInput)

	_, err = s.sessions.AddEntry(ctx, AddEntryInput{Name: "Asha", KgExpr: "1/0", Rate: 10, Date: testutil.TestDate})
	assert.ErrorIs(t, err, calc.ErrInvalidResult)
}

func TestUpdateEntry_RecomputesTotal(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	view := addEntry(t, s.sessions, "Asha", "10", 50)
	id := view.Entries[0].ID
	before := view.Entries[0].Timestamp

	view, err := s.sessions.UpdateEntry(ctx, id, domain.EntryUpdate{Name: "Asha Devi", Kg: 12.5, Rate: 40})
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	e := view.Entries[0]
	assert.Equal(t, "Asha Devi", e.Name)
	assert.Equal(t, 500.0, e.Total)
	assert.False(t, e.Timestamp.Before(before), "timestamp refreshed")
	assert.Equal(t, 500.0, view.Stats.Amount)
}

func TestUpdateEntry_KgBoundsStricterThanAdd(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	view := addEntry(t, s.sessions, "Asha", "1200", 5)
	id := view.Entries[0].ID

	for _, kg := range []float64{0, -1, 1000.5} {
		_, err := s.sessions.UpdateEntry(ctx, id, domain.EntryUpdate{Name: "Asha", Kg: kg, Rate: 5})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "kg=%v", kg)
		assert.Equal(t, "kg", ve.Field)
	}

	got, err := s.sessRepo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got.Kg, "rejected edits leave the entry unchanged")
}

func TestUpdateEntry_NotFound(t *testing.T) {
	s := setupServices(t)

	_, err := s.sessions.UpdateEntry(context.Background(), 77, domain.EntryUpdate{Name: "Asha", Kg: 1, Rate: 1})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "77", nf.Key)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEntry(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	addEntry(t, s.sessions, "Asha", "10", 50)
	view := addEntry(t, s.sessions, "Ravi", "5", 50)

	view, err := s.sessions.DeleteEntry(ctx, view.Entries[0].ID)
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "Asha", view.Entries[0].Name)
	assert.Equal(t, domain.Totals{Workers: 1, Kg: 10, Amount: 500}, view.Stats)

	_, err = s.sessions.DeleteEntry(ctx, 999)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestClearSession(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	addEntry(t, s.sessions, "Asha", "10", 50)
	addEntry(t, s.sessions, "Ravi", "5", 50)

	n, err := s.sessions.ClearSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	view, err := s.sessions.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
	assert.Equal(t, domain.Totals{}, view.Stats)
}

func TestListByDate(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	addEntry(t, s.sessions, "Asha", "10", 50)
	_, err := s.sessions.AddEntry(ctx, AddEntryInput{Name: "Ravi", KgExpr: "4", Rate: 50, Date: "06-01-2024"})
	require.NoError(t, err)

	view, err := s.sessions.List(ctx, "2024-01-06")
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "Ravi", view.Entries[0].Name)
	assert.Equal(t, 200.0, view.Stats.Amount)

	_, err = s.sessions.List(ctx, "not-a-date")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

// Property: total == round(kg*rate, 2) for every stored entry.
func TestAddEntry_TotalInvariant(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	kgs := []string{"0", "0.001", "1/3", "12+8.5", "999.999", "2*(3.25+1)"}
	rates := []float64{0.01, 1, 7.5, 33.33, 999.5, 1000}
	for _, kg := range kgs {
		for _, rate := range rates {
			_, err := s.sessions.AddEntry(ctx, AddEntryInput{Name: "Asha", KgExpr: kg, Rate: rate, Date: testutil.TestDate})
			require.NoError(t, err)
		}
	}

	view, err := s.sessions.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, view.Entries, len(kgs)*len(rates))
	for _, e := range view.Entries {
		assert.Equal(t, domain.LineTotal(e.Kg, e.Rate), e.Total, "kg=%v rate=%v", e.Kg, e.Rate)
	}
}
