package subscription

import "time"

// subscription statuses as mirrored from the payment processor
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
	StatusFree     = "free"
)

// Subscription mirrors the payment processor state for one user. Rows
// are written only by the stripe webhook handler, never by user calls.
type Subscription struct {
	ID                   int       `json:"id"`
	UserID               string    `json:"userId"`
	StripeCustomerID     string    `json:"stripeCustomerId"`
	StripeSubscriptionID string    `json:"stripeSubscriptionId"`
	Status               string    `json:"status"`
	PriceID              string    `json:"priceId"`
	CurrentPeriodEnd     time.Time `json:"currentPeriodEnd"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// IsPro reports whether this subscription grants unlimited generations.
func (s *Subscription) IsPro() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}
