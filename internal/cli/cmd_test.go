package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/cotton/internal/calc"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/report"
	"github.com/alexanderramin/cotton/internal/repository"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/alexanderramin/cotton/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. Prompts are off and "today" is testutil.TestDate.
func testApp(t *testing.T) *App {
	t.Helper()
	app, _ := testAppWithDB(t)
	return app
}

// testAppWithDB is testApp plus the database behind it, for seeding.
func testAppWithDB(t *testing.T) (*App, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	history := service.NewHistoryService(uow)
	app := &App{
		Sessions: service.NewSessionService(repository.NewSQLiteSessionRepo(database), uow),
		History:  history,
		Drafts: service.NewDraftService(repository.NewSQLiteDraftRepo(database),
			[]domain.DraftField{domain.DraftName, domain.DraftKg, domain.DraftRate}),
		Reports:   service.NewReportService(history, report.LayoutDateRate, false, t.TempDir()),
		ReportDir: t.TempDir(),
		Now: func() time.Time {
			return time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)
		},
	}
	return app, database
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, "cotton %v\n%s", args, out)
	return out
}

// seedSession adds Asha 40 and Ravi 35.5 at rate 10.
func seedSession(t *testing.T, app *App) {
	t.Helper()
	mustExecute(t, app, "add", "--name", "Asha", "--kg", "40", "--rate", "10")
	mustExecute(t, app, "add", "--name", "Ravi", "--kg", "30+5.5", "--rate", "10")
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "cotton")
	assert.Contains(t, output, "complete")
}

// --- add ---

func TestAddCmd_Success(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "add", "--name", "Asha", "--kg", "12+8.5", "--rate", "10")
	assert.Contains(t, out, "Added Asha: 20.5 KG × ₹10.00 = ₹205.00")
	assert.Contains(t, out, "Workers: 1")

	view, err := app.Sessions.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, testutil.TestDate, view.Entries[0].Date)
}

func TestAddCmd_ExplicitDate(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "add", "--name", "Asha", "--kg", "1", "--rate", "10", "--date", "2024-02-01")

	view, err := app.Sessions.List(context.Background(), "01-02-2024")
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1)
}

func TestAddCmd_InvalidKgKeepsDrafts(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, app, "add", "--name", "Asha", "--kg", "abc", "--rate", "10")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "kg", ve.Field)
	assert.ErrorIs(t, err, calc.ErrInvalidInput)

	drafts, err := app.Drafts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", drafts[domain.DraftName])
	assert.Equal(t, "abc", drafts[domain.DraftKg])

	view, err := app.Sessions.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
}

func TestAddCmd_MissingRate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "--name", "Asha", "--kg", "5")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rate", ve.Field)
}

func TestAddCmd_FillsFromDraftsAndKeepsRate(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	mustExecute(t, app, "draft", "set", "rate", "12")
	mustExecute(t, app, "draft", "set", "kg", "99")
	out := mustExecute(t, app, "add", "--name", "Asha", "--kg", "5")
	assert.Contains(t, out, "5 KG × ₹12.00")

	drafts, err := app.Drafts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.DraftField]string{domain.DraftRate: "12"}, drafts)
}

// --- session ---

func TestSessionCmds_ListEditRemove(t *testing.T) {
	app := testApp(t)
	seedSession(t, app)

	out := mustExecute(t, app, "session", "list")
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "Ravi")
	assert.Contains(t, out, "Workers: 2")
	assert.Contains(t, out, "KG: 75.5")

	out = mustExecute(t, app, "session", "edit", "1", "--kg", "7")
	assert.Contains(t, out, "Updated entry 1: Asha, 7 KG × ₹10.00")
	assert.Contains(t, out, "KG: 42.5")

	out = mustExecute(t, app, "session", "remove", "2")
	assert.Contains(t, out, "Workers: 1")

	out = mustExecute(t, app, "session", "stats")
	assert.Contains(t, out, "Amount: ₹70.00")
}

func TestSessionCmds_NotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "session", "remove", "42")
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = executeCmd(t, app, "session", "edit", "42", "--kg", "1")
	assert.ErrorAs(t, err, &nf)

	_, err = executeCmd(t, app, "session", "remove", "abc")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSessionClearCmd_NeedsConfirmation(t *testing.T) {
	app := testApp(t)
	seedSession(t, app)

	_, err := executeCmd(t, app, "session", "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out := mustExecute(t, app, "session", "clear", "--yes")
	assert.Contains(t, out, "Cleared 2 entries")
}

// --- complete ---

func TestCompleteCmd_EmptySession(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "complete")
	assert.ErrorIs(t, err, service.ErrEmptySession)
}

func TestCompleteCmd_CommitsAndRequiresMergeFlag(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	seedSession(t, app)

	out := mustExecute(t, app, "complete")
	assert.Contains(t, out, "Completed 05-01-2024: 2 entries saved to history")

	view, err := app.Sessions.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)

	mustExecute(t, app, "add", "--name", "Meena", "--kg", "10", "--rate", "10")
	_, err = executeCmd(t, app, "complete", "05-01-2024")
	var exists *service.RecordExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, testutil.TestDate, exists.Date)
	assert.Contains(t, err.Error(), "--merge")

	view, err = app.Sessions.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1, "session untouched without --merge")

	out = mustExecute(t, app, "complete", "--merge")
	assert.Contains(t, out, "added to the existing record")

	rec, err := app.History.Get(ctx, testutil.TestDate)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.TotalWorkers)
	assert.Equal(t, 85.5, rec.TotalKg)
	assert.Equal(t, 855.0, rec.TotalAmount)
}

func TestCompleteCmd_UsesSessionWorkDate(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	mustExecute(t, app, "add", "--name", "Asha", "--kg", "10", "--rate", "50", "--date", "04-01-2024")
	out := mustExecute(t, app, "complete")
	assert.Contains(t, out, "Completed 04-01-2024: 1 entries saved to history")

	rec, err := app.History.Get(ctx, "04-01-2024")
	require.NoError(t, err)
	assert.Equal(t, 500.0, rec.TotalAmount)

	exists, err := app.History.Exists(ctx, testutil.TestDate)
	require.NoError(t, err)
	assert.False(t, exists, "nothing filed under today")
}

func TestCompleteCmd_MixedDatesNeedExplicitDate(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	mustExecute(t, app, "add", "--name", "Asha", "--kg", "10", "--rate", "50", "--date", "04-01-2024")
	mustExecute(t, app, "add", "--name", "Ravi", "--kg", "5", "--rate", "50")

	_, err := executeCmd(t, app, "complete")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "04-01-2024, 05-01-2024")

	view, err := app.Sessions.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, view.Entries, 2, "session untouched")

	out := mustExecute(t, app, "complete", "05-01-2024")
	assert.Contains(t, out, "Completed 05-01-2024: 2 entries saved to history")
}

// --- history ---

func completedDay(t *testing.T, app *App) *domain.HistoryRecord {
	t.Helper()
	seedSession(t, app)
	mustExecute(t, app, "complete")
	rec, err := app.History.Get(context.Background(), testutil.TestDate)
	require.NoError(t, err)
	return rec
}

func TestHistoryCmds_ListShowSearch(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)

	out := mustExecute(t, app, "history", "list")
	assert.Contains(t, out, "05-01-2024")
	assert.Contains(t, out, "₹755.00")

	out = mustExecute(t, app, "history", "list", "--search", "ravi")
	assert.Contains(t, out, "05-01-2024")

	out = mustExecute(t, app, "history", "list", "--search", "meena")
	assert.Contains(t, out, "No history yet.")

	out = mustExecute(t, app, "history", "show", "2024-01-05")
	assert.Regexp(t, `1\s+\S+\s+Asha`, out)
	assert.Regexp(t, `2\s+\S+\s+Ravi`, out)
}

func TestHistoryEditCmd_ByPositionAndPrefix(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	rec := completedDay(t, app)

	mustExecute(t, app, "history", "edit", testutil.TestDate, "1", "--kg", "50")
	got, err := app.History.Get(ctx, testutil.TestDate)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Entries[0].Kg)
	assert.Equal(t, 85.5, got.TotalKg)

	ravi := rec.Entries[1]
	mustExecute(t, app, "history", "edit", testutil.TestDate, ravi.ID[:9], "--name", "Ravi Kumar", "--rate", "12")
	got, err = app.History.Get(ctx, testutil.TestDate)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", got.Entries[1].Name)
	assert.Equal(t, 426.0, got.Entries[1].Total)
}

const (
	ashaID = "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"
	ramID  = "9c2d7f10-5e41-4c8a-a0f3-6d2e1b7c9a55"
)

// seedFixedRecord stores a two-entry record for TestDate whose entry IDs are
// known, so numeric references can be checked against IDs starting with a
// digit.
func seedFixedRecord(t *testing.T) (*App, *sql.DB) {
	t.Helper()
	app, database := testAppWithDB(t)
	rec := testutil.NewTestRecord(testutil.TestDate,
		testutil.WithEntryID(ashaID, "Asha", 10, 50),
		testutil.WithEntryID(ramID, "Ram", 5, 50),
	)
	require.NoError(t, repository.NewSQLiteHistoryRepo(database).Create(context.Background(), rec))
	return app, database
}

func TestResolveHistoryEntry(t *testing.T) {
	app, _ := seedFixedRecord(t)
	ctx := context.Background()

	tests := []struct {
		ref      string
		wantName string
		wantErr  any
	}{
		{ref: "1", wantName: "Asha"},
		{ref: "#2", wantName: "Ram"},
		{ref: ashaID, wantName: "Asha"},
		{ref: "9c2d", wantName: "Ram"},
		{ref: "1b9d6", wantName: "Asha"},
		{ref: "9", wantErr: new(*service.NotFoundError)},
		{ref: "0", wantErr: new(*service.NotFoundError)},
		{ref: "19", wantErr: new(*service.NotFoundError)},
		{ref: "abcd", wantErr: new(*service.NotFoundError)},
		{ref: "9c", wantErr: new(*domain.ValidationError)},
		{ref: "", wantErr: new(*domain.ValidationError)},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, e, err := resolveHistoryEntry(ctx, app, testutil.TestDate, tt.ref)
			if tt.wantErr != nil {
				require.ErrorAs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, e.Name)
		})
	}
}

func TestHistoryCmds_OutOfRangePositionChangesNothing(t *testing.T) {
	app, _ := seedFixedRecord(t)
	ctx := context.Background()

	_, err := executeCmd(t, app, "history", "remove", testutil.TestDate, "9")
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)

	_, err = executeCmd(t, app, "history", "edit", testutil.TestDate, "9", "--kg", "1")
	require.ErrorAs(t, err, &nf)

	rec, err := app.History.Get(ctx, testutil.TestDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha", "Ram"}, testutil.Names(rec))
	assert.Equal(t, 15.0, rec.TotalKg)

	_, err = executeCmd(t, app, "history", "show", "06-01-2024")
	assert.ErrorAs(t, err, &nf)
}

func TestHistoryRemoveCmd_LastEntryDeletesDay(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	completedDay(t, app)

	out := mustExecute(t, app, "history", "remove", testutil.TestDate, "2")
	assert.Contains(t, out, "Removed Ravi from 05-01-2024")

	out = mustExecute(t, app, "history", "remove", testutil.TestDate, "1")
	assert.Contains(t, out, "was deleted")

	exists, err := app.History.Exists(ctx, testutil.TestDate)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHistoryDeleteDayCmd(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)

	_, err := executeCmd(t, app, "history", "delete-day", testutil.TestDate)
	require.Error(t, err)

	mustExecute(t, app, "history", "delete-day", testutil.TestDate, "--yes")
	out := mustExecute(t, app, "overview")
	assert.Regexp(t, `Days\s+0`, out)
}

// --- overview ---

func TestOverviewCmd(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)

	out := mustExecute(t, app, "overview")
	assert.Regexp(t, `Days\s+1`, out)
	assert.Regexp(t, `Workers\s+2`, out)
	assert.Contains(t, out, "75.5")
	assert.Contains(t, out, "₹755.00")
}

// --- report ---

func TestReportDayCmd_WritesFile(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)

	out := mustExecute(t, app, "report", "day", testutil.TestDate)
	want := filepath.Join(app.ReportDir, "CottonReport_05012024.pdf")
	assert.Contains(t, out, want)
	assert.FileExists(t, want)
}

func TestReportFullCmd_XLSXToOutDir(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)
	dir := t.TempDir()

	out := mustExecute(t, app, "report", "full", "--format", "xlsx", "--out", dir)
	assert.Contains(t, out, "(1 day)")
	assert.FileExists(t, filepath.Join(dir, "CottonFullReport.xlsx"))
}

func TestReportDayCmd_AllFormats(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)

	out := mustExecute(t, app, "report", "day", testutil.TestDate, "--format", "all")
	assert.Contains(t, out, "CottonReport_05012024.pdf")
	assert.Contains(t, out, "CottonReport_05012024.xlsx")
	assert.FileExists(t, filepath.Join(app.ReportDir, "CottonReport_05012024.xlsx"))
}

func TestReportCmds_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "report", "full")
	assert.ErrorIs(t, err, service.ErrNothingToExport)

	completedDay(t, app)
	_, err = executeCmd(t, app, "report", "full", "--format", "csv")
	assert.Error(t, err)
}

func TestReportCmd_FallbackNotice(t *testing.T) {
	app := testApp(t)
	completedDay(t, app)

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	out := mustExecute(t, app, "report", "day", testutil.TestDate, "--out", filepath.Join(file, "reports"))
	assert.Contains(t, out, "saved to the fallback location")
}

// --- draft ---

func TestDraftCmds(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "draft", "set", "name", "Asha")
	out := mustExecute(t, app, "draft", "show")
	assert.Regexp(t, `name\s+Asha\s+cotton-tracker-worker-name`, out)
	assert.Regexp(t, `kg\s+\(none\)`, out)

	mustExecute(t, app, "draft", "clear", "name")
	out = mustExecute(t, app, "draft", "show")
	assert.Regexp(t, `name\s+\(none\)`, out)

	_, err := executeCmd(t, app, "draft", "set", "date", "x")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

// --- errors ---

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty session", service.ErrEmptySession, "nothing to complete: the session has no entries"},
		{"nothing to export", service.ErrNothingToExport, "nothing to export: history is empty"},
		{"not found", &service.NotFoundError{What: "history record", Key: "05-01-2024"}, "history record 05-01-2024 not found"},
		{"validation", &domain.ValidationError{Field: "rate", Msg: "rate is required"}, "invalid rate: rate is required"},
		{
			"bad kg",
			&domain.ValidationError{Field: "kg", Msg: `cannot evaluate "abc"`, Err: calc.ErrInvalidInput},
			`cannot evaluate "abc": use numbers and + - * / ( ), and the result must be a positive amount`,
		},
		{
			"conflict",
			&service.StorageError{Op: "editing entry", Err: repository.ErrConflict},
			"the record was changed by another command while this one ran; nothing was saved, try again",
		},
		{"storage", &service.StorageError{Op: "adding entry", Err: errors.New("disk full")}, "adding entry failed; nothing was changed (disk full)"},
		{"export", &service.ExportError{Path: "/x", Err: errors.New("denied")}, "could not save the report: denied"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

func TestParseSessionEntryID(t *testing.T) {
	id, err := parseSessionEntryID("#12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "0", "-3", "x1"} {
		_, err := parseSessionEntryID(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildUpdate_KeepsUnsetFields(t *testing.T) {
	u, err := buildUpdate(entryValues{Kg: "10+2.5"}, "Asha", 40, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryUpdate{Name: "Asha", Kg: 12.5, Rate: 10}, u)

	_, err = buildUpdate(entryValues{Rate: "0"}, "Asha", 40, 10)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rate", ve.Field)
}
