package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	store, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func TestSQLiteStore_UpsertInsertsThenUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := uuid.New()

	created, err := store.UpsertApplication(ctx, &ApplicationInput{
		UserID: user, JobID: "job-1", Status: StageSaved, JobTitle: "Backend Engineer", Company: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, user, created.UserID)
	assert.Equal(t, StageSaved, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	updated, err := store.UpsertApplication(ctx, &ApplicationInput{
		UserID: user, JobID: "job-1", Status: StageApplied, Notes: "sent via referral",
	})
	require.NoError(t, err)
	assert.Equal(t, StageApplied, updated.Status)
	assert.Equal(t, "sent via referral", updated.Notes)
	assert.Equal(t, "Backend Engineer", updated.JobTitle, "empty title keeps stored value")
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	apps, err := store.ListApplications(ctx, user, "")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestSQLiteStore_ListFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	for _, in := range []ApplicationInput{
		{UserID: user, JobID: "a", Status: StageApplied},
		{UserID: user, JobID: "b", Status: StageInterview},
		{UserID: user, JobID: "c", Status: StageApplied},
		{UserID: other, JobID: "a", Status: StageOffer},
	} {
		in := in
		_, err := store.UpsertApplication(ctx, &in)
		require.NoError(t, err)
	}

	all, err := store.ListApplications(ctx, user, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].JobID, all[1].JobID, all[2].JobID})

	applied, err := store.ListApplications(ctx, user, StageApplied)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	counts := CountStages(all)
	assert.Equal(t, StageCounts{Applied: 2, Interview: 1, Total: 3}, counts)

	none, err := store.ListApplications(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := store.UpsertApplication(ctx, &ApplicationInput{UserID: user, JobID: "job-1", Status: StageSaved})
	require.NoError(t, err)

	require.NoError(t, store.DeleteApplication(ctx, user, "job-1"))

	err = store.DeleteApplication(ctx, user, "job-1")
	var notFound *ErrApplicationNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "job-1", notFound.JobID)
}

func TestSQLiteStore_RejectsInvalidInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   *ApplicationInput
	}{
		{"nil", nil},
		{"nil user", &ApplicationInput{JobID: "j", Status: StageSaved}},
		{"empty job", &ApplicationInput{UserID: uuid.New(), Status: StageSaved}},
		{"bad status", &ApplicationInput{UserID: uuid.New(), JobID: "j", Status: "ghosted"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.UpsertApplication(ctx, tt.in)
			assert.Error(t, err)
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	apps, err := store.ListApplications(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, apps)

	_, err = Open(ctx, "mysql", "x")
	assert.ErrorContains(t, err, "unsupported storage driver")
}
