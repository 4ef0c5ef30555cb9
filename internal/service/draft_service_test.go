package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
	"github.com/alexanderramin/cotton/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrafts_SaveLoadClearSubmitted(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	require.NoError(t, s.drafts.Save(ctx, domain.DraftName, "Asha"))
	require.NoError(t, s.drafts.Save(ctx, domain.DraftKg, "12+8"))
	require.NoError(t, s.drafts.Save(ctx, domain.DraftRate, "8"))

	got, err := s.drafts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.DraftField]string{
		domain.DraftName: "Asha",
		domain.DraftKg:   "12+8",
		domain.DraftRate: "8",
	}, got)

	require.NoError(t, s.drafts.ClearSubmitted(ctx))
	got, err = s.drafts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.DraftField]string{domain.DraftRate: "8"}, got, "rate survives a submit")

	require.NoError(t, s.drafts.Clear(ctx))
	got, err = s.drafts.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDrafts_OnlyConfiguredFields(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteDraftRepo(database)
	ctx := context.Background()

	// A name draft left by a configuration that kept it.
	full := NewDraftService(repo, []domain.DraftField{domain.DraftName, domain.DraftKg, domain.DraftRate})
	require.NoError(t, full.Save(ctx, domain.DraftName, "Asha"))

	svc := NewDraftService(repo, []domain.DraftField{domain.DraftKg, domain.DraftRate})
	assert.Equal(t, []domain.DraftField{domain.DraftKg, domain.DraftRate}, svc.Fields())

	err := svc.Save(ctx, domain.DraftName, "Ravi")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	err = svc.Save(ctx, domain.DraftField("colour"), "red")
	require.ErrorAs(t, err, &ve)

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "fields outside the configuration are not restored")
}
