package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=preferences_mocks_test.go -package=preferences_test

type preferencesRepo interface {
	Get(ctx context.Context, userID string) (*Preferences, error)
	Upsert(ctx context.Context, p *Preferences) error
}

type Handler struct {
	repo preferencesRepo
}

func NewHandler(repo preferencesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/preferences/{userId}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-preferences")
	r.HandleFunc("/preferences", handler.HandleUpsert).Methods("PUT", "OPTIONS").Name("upsert-preferences")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.preferences.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	p, err := handler.repo.Get(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		http.Error(w, "preferences not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get preferences for user %s: %s", userID, err)
		http.Error(w, "failed to get preferences", http.StatusInternalServerError)
		return
	}

	prefsJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal preferences: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, prefsJson)
}

func (handler *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.preferences.upsert")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Tracef("upsert preferences, unmarshal json params: %s", err)
		http.Error(w, "invalid preferences payload", http.StatusBadRequest)
		return
	}

	if p.UserID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Upsert(ctx, &p); err != nil {
		log.Errorf("failed to upsert preferences for user %s: %s", p.UserID, err)
		http.Error(w, "failed to save preferences", http.StatusInternalServerError)
		return
	}

	log.Debugf("preferences saved for user: %s", p.UserID)
	pkg.WriteJSONResponseOK(w, `{"saved":true}`)
}
