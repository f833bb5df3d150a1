package preferences_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitforge/internal/preferences"
)

func TestHandler_HandleGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockpreferencesRepo(ctrl)
	h := preferences.NewHandler(repoMock)

	testPrefs := &preferences.Preferences{
		UserID:                 "user-1",
		PrimaryGoal:            "muscle gain",
		ExperienceLevel:        "intermediate",
		AvailableEquipment:     []string{"dumbbells", "pull-up bar"},
		PreferredWorkoutDays:   4,
		WorkoutDurationMinutes: 45,
		TargetMuscleGroups:     []string{"back", "chest"},
	}

	repoMock.EXPECT().
		Get(gomock.Any(), "user-1").
		Return(testPrefs, nil)

	req, err := http.NewRequest("GET", "/preferences/user-1", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userId": "user-1"})
	rec := httptest.NewRecorder()

	h.HandleGet(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var gotPrefs preferences.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gotPrefs))
	assert.Equal(t, "muscle gain", gotPrefs.PrimaryGoal)
	assert.Equal(t, 4, gotPrefs.PreferredWorkoutDays)
	assert.Equal(t, []string{"dumbbells", "pull-up bar"}, gotPrefs.AvailableEquipment)
}

func TestHandler_HandleGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockpreferencesRepo(ctrl)
	h := preferences.NewHandler(repoMock)

	repoMock.EXPECT().
		Get(gomock.Any(), "ghost").
		Return(nil, preferences.ErrPreferencesNotFound)

	req, err := http.NewRequest("GET", "/preferences/ghost", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userId": "ghost"})
	rec := httptest.NewRecorder()

	h.HandleGet(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleUpsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockpreferencesRepo(ctrl)
	h := preferences.NewHandler(repoMock)

	testPrefs := preferences.Preferences{
		UserID:                 "user-1",
		PrimaryGoal:            "weight loss",
		ExperienceLevel:        "beginner",
		PreferredWorkoutDays:   3,
		WorkoutDurationMinutes: 30,
	}
	prefsJson, err := json.Marshal(testPrefs)
	require.NoError(t, err)

	repoMock.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *preferences.Preferences) error {
			assert.Equal(t, "user-1", p.UserID)
			assert.Equal(t, "weight loss", p.PrimaryGoal)
			return nil
		})

	req, err := http.NewRequest("PUT", "/preferences", bytes.NewReader(prefsJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.HandleUpsert(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"saved":true}`, rec.Body.String())
}

func TestHandler_HandleUpsert_MissingUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockpreferencesRepo(ctrl)
	h := preferences.NewHandler(repoMock)

	req, err := http.NewRequest("PUT", "/preferences", bytes.NewReader([]byte(`{"primaryGoal":"strength"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.HandleUpsert(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleUpsert_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockpreferencesRepo(ctrl)
	h := preferences.NewHandler(repoMock)

	repoMock.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(errors.New("db gone"))

	req, err := http.NewRequest("PUT", "/preferences", bytes.NewReader([]byte(`{"userId":"user-1"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.HandleUpsert(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
