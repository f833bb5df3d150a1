//go:build integration_test || all_tests

package routines

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/fitforge/internal/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepoSetup(t *testing.T) (*Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "fitforge",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func testRoutine(userID string) *Routine {
	return &Routine{
		UserID:      userID,
		Name:        gofakeit.HipsterSentence(3),
		Description: gofakeit.HipsterSentence(8),
		Workouts: map[string][]Exercise{
			"day1": {
				{ID: "e1", Name: "Squat", Sets: 5, Reps: 5},
				{ID: "e2", Name: "Bench Press", Sets: 5, Reps: 5},
			},
			"day2": {},
		},
		Analysis: &Analysis{
			MuscleGroupsCovered: map[string]int{"legs": 1, "chest": 1},
			WeeklyVolume:        map[string]int{"legs": 25},
			RestPeriods:         []string{"3 min between heavy sets"},
		},
	}
}

func TestRepo_SaveAndList(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	userID := gofakeit.UUID()

	saved, err := repo.Save(ctx, testRoutine(userID))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
	assert.Len(t, list[0].Workouts["day1"], 2)
	require.NotNil(t, list[0].Analysis)
	assert.Equal(t, 25, list[0].Analysis.WeeklyVolume["legs"])
}

func TestRepo_Delete_OwnerScoped(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	owner := gofakeit.UUID()
	intruder := gofakeit.UUID()

	saved, err := repo.Save(ctx, testRoutine(owner))
	require.NoError(t, err)

	// another user cannot delete this routine
	err = repo.Delete(ctx, saved.ID, intruder)
	require.ErrorIs(t, err, ErrRoutineNotFound)

	list, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// the owner can
	require.NoError(t, repo.Delete(ctx, saved.ID, owner))

	list, err = repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = repo.Delete(ctx, saved.ID, owner)
	require.ErrorIs(t, err, ErrRoutineNotFound)
}
