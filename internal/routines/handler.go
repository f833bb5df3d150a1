package routines

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

//go:generate mockgen -source=$GOFILE -destination=routines_mocks_test.go -package=routines_test

type routinesRepo interface {
	Save(ctx context.Context, routine *Routine) (*Routine, error)
	ListByUser(ctx context.Context, userID string) ([]Routine, error)
	Delete(ctx context.Context, id, userID string) error
}

type Handler struct {
	repo routinesRepo
}

func NewHandler(repo routinesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/routines", handler.HandleSave).Methods("POST", "OPTIONS").Name("save-routine")
	r.HandleFunc("/routines/{userId}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.save")
	defer span.End()

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("save routine, unmarshal json params: %s", err)
		http.Error(w, "invalid routine payload", http.StatusBadRequest)
		return
	}
	if routine.UserID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	if routine.Name == "" {
		http.Error(w, "error, routine name empty", http.StatusBadRequest)
		return
	}
	if len(routine.Workouts) == 0 {
		http.Error(w, "error, routine workouts empty", http.StatusBadRequest)
		return
	}

	saved, err := handler.repo.Save(ctx, &routine)
	if err != nil {
		log.Errorf("failed to save routine for user %s: %s", routine.UserID, err)
		http.Error(w, "failed to save routine", http.StatusInternalServerError)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal saved routine: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	list, err := handler.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Errorf("failed to list routines for user %s: %s", userID, err)
		http.Error(w, "failed to list routines", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Routine{}
	}

	listJson, err := json.Marshal(list)
	if err != nil {
		log.Errorf("failed to marshal routines: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	userID := r.URL.Query().Get("userId")
	if id == "" || userID == "" {
		http.Error(w, "error, routine id or user id empty", http.StatusBadRequest)
		return
	}

	err := handler.repo.Delete(ctx, id, userID)
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to delete routine %s for user %s: %s", id, userID, err)
		http.Error(w, "failed to delete routine", http.StatusInternalServerError)
		return
	}

	log.Debugf("routine %s deleted for user %s", id, userID)
	pkg.WriteJSONResponseOK(w, `{"deleted":true}`)
}
