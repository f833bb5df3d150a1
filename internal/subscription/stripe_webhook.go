package subscription

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitforge/internal/telemetry/metrics"
	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// stripe event types we care about; everything else is acknowledged
// and dropped
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"

	signatureTolerance = 5 * time.Minute
)

type webhookSubscriptionStore interface {
	Upsert(ctx context.Context, s *Subscription) error
	MarkCanceled(ctx context.Context, stripeSubscriptionID string) error
}

type statusInvalidator interface {
	InvalidateStatus(userID string)
}

// stripeEvent is the subset of the stripe event payload this service
// reads. https://docs.stripe.com/api/events/object
type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object stripeSubscriptionObject `json:"object"`
	} `json:"data"`
}

type stripeSubscriptionObject struct {
	ID               string            `json:"id"`
	Customer         string            `json:"customer"`
	Status           string            `json:"status"`
	CurrentPeriodEnd int64             `json:"current_period_end"`
	Metadata         map[string]string `json:"metadata"`
	Items            struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type WebhookHandler struct {
	signingSecret  string
	store          webhookSubscriptionStore
	invalidator    statusInvalidator
	metricsManager *metrics.Manager
	nowFunc        func() time.Time
}

func NewWebhookHandler(
	signingSecret string,
	store webhookSubscriptionStore,
	invalidator statusInvalidator,
	metricsManager *metrics.Manager,
) *WebhookHandler {
	return &WebhookHandler{
		signingSecret:  signingSecret,
		store:          store,
		invalidator:    invalidator,
		metricsManager: metricsManager,
		nowFunc:        time.Now,
	}
}

func (handler *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stripe.webhook")
	defer span.End()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("stripe webhook, read body: %s", err)
		pkg.WriteJSONError(w, "failed to read payload", "", http.StatusBadRequest)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		log.Warnf("stripe webhook without signature header")
		pkg.WriteJSONError(w, "no signature found", "", http.StatusBadRequest)
		return
	}

	if err := handler.verifySignature(payload, sigHeader); err != nil {
		log.Errorf("stripe webhook signature verification failed: %s", err)
		pkg.WriteJSONError(w, "webhook signature verification failed", "", http.StatusBadRequest)
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Errorf("stripe webhook, unmarshal event: %s", err)
		pkg.WriteJSONError(w, "invalid event payload", "", http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.String("stripe.event.type", event.Type))
	if handler.metricsManager != nil {
		handler.metricsManager.CounterStripeEvents.WithLabelValues(event.Type).Inc()
	}

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		if err := handler.upsertFromEvent(ctx, &event); err != nil {
			log.Errorf("stripe webhook, apply %s: %s", event.Type, err)
			pkg.WriteJSONError(w, "failed to apply event", "", http.StatusInternalServerError)
			return
		}
	case EventSubscriptionDeleted:
		if err := handler.store.MarkCanceled(ctx, event.Data.Object.ID); err != nil {
			log.Errorf("stripe webhook, apply %s: %s", event.Type, err)
			pkg.WriteJSONError(w, "failed to apply event", "", http.StatusInternalServerError)
			return
		}
		handler.invalidator.InvalidateStatus(event.Data.Object.Metadata["user_id"])
	default:
		log.Tracef("stripe webhook, ignoring event type: %s", event.Type)
	}

	pkg.WriteJSONResponseOK(w, `{"received":true}`)
}

func (handler *WebhookHandler) upsertFromEvent(ctx context.Context, event *stripeEvent) error {
	obj := event.Data.Object
	if obj.ID == "" {
		return fmt.Errorf("event %s without subscription id", event.ID)
	}

	sub := &Subscription{
		UserID:               obj.Metadata["user_id"],
		StripeCustomerID:     obj.Customer,
		StripeSubscriptionID: obj.ID,
		Status:               obj.Status,
		CurrentPeriodEnd:     time.Unix(obj.CurrentPeriodEnd, 0),
	}
	if len(obj.Items.Data) > 0 {
		sub.PriceID = obj.Items.Data[0].Price.ID
	}

	if err := handler.store.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	handler.invalidator.InvalidateStatus(sub.UserID)
	log.Debugf("stripe subscription %s for customer %s now %s", obj.ID, obj.Customer, obj.Status)
	return nil
}

// verifySignature checks the Stripe-Signature header:
// a comma separated list of t=<unix ts> and v1=<hex hmac-sha256 of
// "<t>.<payload>" with the signing secret>.
// https://docs.stripe.com/webhooks#verify-manually
func (handler *WebhookHandler) verifySignature(payload []byte, sigHeader string) error {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp: %w", err)
	}
	if age := handler.nowFunc().Sub(time.Unix(ts, 0)); age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("signature timestamp outside of tolerance")
	}

	mac := hmac.New(sha256.New, []byte(handler.signingSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("no matching v1 signature")
}
