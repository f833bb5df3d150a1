package history

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=history_mocks_test.go -package=history_test

type historyRepo interface {
	List(ctx context.Context, params ListParams) (_ []Entry, total int, err error)
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

type Handler struct {
	repo historyRepo
}

func NewHandler(repo historyRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/history/{userId}/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-history")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.list")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list history, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list history, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	entries, total, err := handler.repo.List(ctx, ListParams{
		UserID: userID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		log.Errorf("list history for user %s: %s", userID, err)
		http.Error(w, "failed to get history", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Entries: entries,
		Total:   total,
	})
	if err != nil {
		log.Errorf("marshal history entries error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listRespJson)
}
