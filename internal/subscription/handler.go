package subscription

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=subscription_test

type entitlementsService interface {
	CanGenerate(ctx context.Context, userID string) (bool, error)
	GetStatus(ctx context.Context, userID string) (Status, error)
}

type CheckLimitRequest struct {
	UserID string `json:"userId"`
}

type CheckLimitResponse struct {
	CanGenerate bool `json:"canGenerate"`
}

type Handler struct {
	service entitlementsService
}

func NewHandler(service entitlementsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router, webhookHandler *WebhookHandler) {
	r.HandleFunc("/subscription/check-limit", handler.HandleCheckLimit).Methods("POST", "OPTIONS").Name("check-limit")
	r.HandleFunc("/subscription/status", handler.HandleStatus).Methods("POST", "OPTIONS").Name("subscription-status")
	r.HandleFunc("/stripe/webhook", webhookHandler.HandleWebhook).Methods("POST").Name("stripe-webhook")
}

func (handler *Handler) HandleCheckLimit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.subscription.checklimit")
	defer span.End()

	var req CheckLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("check limit, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request", "", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		pkg.WriteJSONError(w, "missing userId", "", http.StatusBadRequest)
		return
	}

	canGenerate, err := handler.service.CanGenerate(ctx, req.UserID)
	if err != nil {
		log.Errorf("failed to check generation limit for user %s: %s", req.UserID, err)
		pkg.WriteJSONError(w, "failed to check generation limit", "", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(CheckLimitResponse{CanGenerate: canGenerate})
	if err != nil {
		log.Errorf("failed to marshal check limit response: %s", err)
		pkg.WriteJSONError(w, "internal server error", "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.subscription.status")
	defer span.End()

	var req CheckLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("subscription status, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request", "", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		pkg.WriteJSONError(w, "missing userId", "", http.StatusBadRequest)
		return
	}

	status, err := handler.service.GetStatus(ctx, req.UserID)
	if err != nil {
		log.Errorf("failed to get subscription status for user %s: %s", req.UserID, err)
		pkg.WriteJSONError(w, "failed to get subscription status", "", http.StatusInternalServerError)
		return
	}

	statusJson, err := json.Marshal(status)
	if err != nil {
		log.Errorf("failed to marshal subscription status: %s", err)
		pkg.WriteJSONError(w, "internal server error", "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statusJson)
}
