//go:build integration_test || all_tests

package history

import (
	"context"
	"fmt"
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

func TestRepo_AddAndList(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	userID := gofakeit.UUID()

	now := time.Now().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		weight := float64(100 + i)
		added, err := repo.Add(ctx, Entry{
			UserID:    userID,
			RawInput:  fmt.Sprintf("bench press session %d", i),
			Type:      TypeCompletion,
			Exercise:  "bench press",
			Weight:    &weight,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.NotZero(t, added.ID)
	}

	recent, err := repo.ListRecent(ctx, userID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	// newest first
	assert.Equal(t, "bench press session 6", recent[0].RawInput)
	assert.Equal(t, "bench press session 2", recent[4].RawInput)

	page1, total, err := repo.List(ctx, ListParams{UserID: userID, Page: 1, Size: 4})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page1, 4)

	page2, _, err := repo.List(ctx, ListParams{UserID: userID, Page: 2, Size: 4})
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
}

func TestRepo_OptionalFieldsStayEmpty(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	userID := gofakeit.UUID()

	_, err := repo.Add(ctx, Entry{
		UserID:    userID,
		RawInput:  "planning to hit the gym tomorrow",
		Type:      TypeIntention,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	entries, err := repo.ListRecent(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Exercise)
	assert.Nil(t, entries[0].Weight)
	assert.Nil(t, entries[0].Sets)
}
