package tracker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestRedisStore_Get_NoStateYet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	mock.ExpectGet(stateKeyPrefix + "new-user").SetErr(redis.Nil)

	state, err := store.Get(context.Background(), "new-user")
	require.NoError(t, err)

	// unknown users get the starter week and equipment
	assert.Len(t, state.Workouts, 7)
	assert.Len(t, state.Equipment, 6)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	stored := DefaultState()
	stored.Workouts["Monday"][0].Completed = true
	storedJson, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectGet(stateKeyPrefix + "user-1").SetVal(string(storedJson))

	state, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, state.Workouts["Monday"][0].Completed)
	assert.False(t, state.Workouts["Monday"][1].Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Get_CorruptState(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	mock.ExpectGet(stateKeyPrefix + "user-1").SetVal("{broken json")

	_, err := store.Get(context.Background(), "user-1")
	require.Error(t, err)
}

func TestRedisStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	state := DefaultState()
	stateJson, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectSet(stateKeyPrefix+"user-1", stateJson, 0).SetVal("OK")

	require.NoError(t, store.Save(context.Background(), "user-1", state))
	require.NoError(t, mock.ExpectationsWereMet())
}
