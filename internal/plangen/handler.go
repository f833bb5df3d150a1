package plangen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitforge/internal/routines"
	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plangen_test

const limitReachedMessage = "You have reached your workout generation limit for this month. Upgrade to Pro for unlimited generations."

type planGenerator interface {
	Generate(ctx context.Context, userID string, saveRoutine bool) (*routines.Routine, error)
}

type GenerateRequest struct {
	UserID      string `json:"userId"`
	SaveRoutine bool   `json:"saveRoutine"`
}

type Handler struct {
	generator planGenerator
}

func NewHandler(generator planGenerator) *Handler {
	return &Handler{
		generator: generator,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/generate-workout", handler.HandleGenerate).Methods("POST", "OPTIONS").Name("generate-workout")
}

func (handler *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plangen.generate")
	defer span.End()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("generate workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request", "", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		pkg.WriteJSONError(w, "missing required fields", "", http.StatusBadRequest)
		return
	}

	plan, err := handler.generator.Generate(ctx, req.UserID, req.SaveRoutine)
	if errors.Is(err, ErrLimitReached) {
		pkg.WriteJSONError(w, limitReachedMessage, "GENERATION_LIMIT_REACHED", http.StatusForbidden)
		return
	}
	if err != nil {
		log.Errorf("failed to generate workout for user %s: %s", req.UserID, err)
		pkg.WriteJSONError(w, "failed to generate workout", "", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("failed to marshal generated plan: %s", err)
		pkg.WriteJSONError(w, "internal server error", "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, planJson)
}
