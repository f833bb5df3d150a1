package tracker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitforge/internal/routines"
	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/tracker/{userId}", handler.HandleGetState).Methods("GET", "OPTIONS").Name("tracker-state")
	r.HandleFunc("/tracker/{userId}/toggle", handler.HandleToggle).Methods("POST", "OPTIONS").Name("tracker-toggle")
	r.HandleFunc("/tracker/{userId}/exercise", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("tracker-add-exercise")
	r.HandleFunc("/tracker/{userId}/{day}/exercise/{exerciseId}", handler.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("tracker-remove-exercise")
	r.HandleFunc("/tracker/{userId}/workouts", handler.HandleReplaceWorkouts).Methods("PUT", "OPTIONS").Name("tracker-replace-workouts")
	r.HandleFunc("/tracker/{userId}/equipment", handler.HandleAddEquipment).Methods("POST", "OPTIONS").Name("tracker-add-equipment")
	r.HandleFunc("/tracker/{userId}/equipment/{equipmentId}", handler.HandleRemoveEquipment).Methods("DELETE", "OPTIONS").Name("tracker-remove-equipment")
}

func (handler *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.getstate")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	state, err := handler.service.GetState(ctx, userID)
	if err != nil {
		log.Errorf("failed to get tracker state for user %s: %s", userID, err)
		http.Error(w, "failed to get tracker state", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

type toggleRequest struct {
	Day        string `json:"day"`
	ExerciseID string `json:"exerciseId"`
}

func (handler *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.toggle")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if userID == "" || req.Day == "" || req.ExerciseID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	state, err := handler.service.ToggleExercise(ctx, userID, req.Day, req.ExerciseID)
	if errors.Is(err, ErrExerciseNotFound) {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to toggle exercise for user %s: %s", userID, err)
		http.Error(w, "failed to toggle exercise", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

type addExerciseRequest struct {
	Day      string            `json:"day"`
	Exercise routines.Exercise `json:"exercise"`
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.addexercise")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req addExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if userID == "" || req.Day == "" || req.Exercise.Name == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	state, err := handler.service.AddExercise(ctx, userID, req.Day, req.Exercise)
	if err != nil {
		log.Errorf("failed to add exercise for user %s: %s", userID, err)
		http.Error(w, "failed to add exercise", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.removeexercise")
	defer span.End()

	vars := mux.Vars(r)
	userID, day, exerciseID := vars["userId"], vars["day"], vars["exerciseId"]
	if userID == "" || day == "" || exerciseID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	state, err := handler.service.RemoveExercise(ctx, userID, day, exerciseID)
	if errors.Is(err, ErrExerciseNotFound) {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to remove exercise for user %s: %s", userID, err)
		http.Error(w, "failed to remove exercise", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

type replaceWorkoutsRequest struct {
	Workouts map[string][]routines.Exercise `json:"workouts"`
}

func (handler *Handler) HandleReplaceWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.replaceworkouts")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var req replaceWorkoutsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if userID == "" || len(req.Workouts) == 0 {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	state, err := handler.service.ReplaceWorkouts(ctx, userID, req.Workouts)
	if err != nil {
		log.Errorf("failed to replace workouts for user %s: %s", userID, err)
		http.Error(w, "failed to replace workouts", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) HandleAddEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.addequipment")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	var equipment Equipment
	if err := json.NewDecoder(r.Body).Decode(&equipment); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if userID == "" || equipment.Name == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	state, err := handler.service.AddEquipment(ctx, userID, equipment)
	if errors.Is(err, ErrInvalidQuantity) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to add equipment for user %s: %s", userID, err)
		http.Error(w, "failed to add equipment", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) HandleRemoveEquipment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.removeequipment")
	defer span.End()

	vars := mux.Vars(r)
	userID, equipmentID := vars["userId"], vars["equipmentId"]
	if userID == "" || equipmentID == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	state, err := handler.service.RemoveEquipment(ctx, userID, equipmentID)
	if errors.Is(err, ErrEquipmentNotFound) {
		http.Error(w, "equipment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to remove equipment for user %s: %s", userID, err)
		http.Error(w, "failed to remove equipment", http.StatusInternalServerError)
		return
	}
	handler.writeState(w, state)
}

func (handler *Handler) writeState(w http.ResponseWriter, state *State) {
	stateJson, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal tracker state: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, stateJson)
}
