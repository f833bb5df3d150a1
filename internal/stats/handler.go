package stats

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=stats_test

type statsProcessor interface {
	Process(ctx context.Context, userID, input string) (*Processed, error)
}

type ProcessRequest struct {
	UserID string `json:"userId"`
	Input  string `json:"input"`
}

type Handler struct {
	processor statsProcessor
}

func NewHandler(processor statsProcessor) *Handler {
	return &Handler{
		processor: processor,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/process-stats", handler.HandleProcess).Methods("POST", "OPTIONS").Name("process-stats")
}

func (handler *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.process")
	defer span.End()

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("process stats, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request", "", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Input == "" {
		pkg.WriteJSONError(w, "missing required fields", "", http.StatusBadRequest)
		return
	}

	processed, err := handler.processor.Process(ctx, req.UserID, req.Input)
	if err != nil {
		log.Errorf("failed to process stats for user %s: %s", req.UserID, err)
		pkg.WriteJSONError(w, "failed to process stats", "", http.StatusInternalServerError)
		return
	}

	processedJson, err := json.Marshal(processed)
	if err != nil {
		log.Errorf("failed to marshal processed stats: %s", err)
		pkg.WriteJSONError(w, "internal server error", "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, processedJson)
}
