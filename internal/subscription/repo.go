package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetByUserID(ctx context.Context, userID string) (_ *Subscription, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.subscription.getbyuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var s Subscription
	err = r.db.QueryRow(
		ctx,
		`SELECT
			id, user_id, stripe_customer_id, stripe_subscription_id,
			status, price_id, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1;`,
		userID,
	).Scan(
		&s.ID, &s.UserID, &s.StripeCustomerID, &s.StripeSubscriptionID,
		&s.Status, &s.PriceID, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Upsert writes the subscription state received from the payment
// processor, keyed by the stripe subscription id. An empty user id
// never overwrites a known one.
func (r *Repo) Upsert(ctx context.Context, s *Subscription) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.subscription.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("stripe.subscription.id", s.StripeSubscriptionID))

	now := time.Now()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO subscriptions
			(user_id, stripe_customer_id, stripe_subscription_id,
			status, price_id, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (stripe_subscription_id) DO UPDATE SET
			user_id = COALESCE(NULLIF(EXCLUDED.user_id, ''), subscriptions.user_id),
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			status = EXCLUDED.status,
			price_id = EXCLUDED.price_id,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = EXCLUDED.updated_at;`,
		s.UserID, s.StripeCustomerID, s.StripeSubscriptionID,
		s.Status, s.PriceID, s.CurrentPeriodEnd, now,
	)
	return err
}

// MarkCanceled flips the subscription status on a deletion event. The
// row is kept, a canceled user simply falls back to the free tier.
func (r *Repo) MarkCanceled(ctx context.Context, stripeSubscriptionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.subscription.markcanceled")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("stripe.subscription.id", stripeSubscriptionID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE subscriptions SET status = $1, updated_at = $2 WHERE stripe_subscription_id = $3;`,
		StatusCanceled, time.Now(), stripeSubscriptionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// CountGenerationsSince counts the workout generations of one user
// after the given moment.
func (r *Repo) CountGenerationsSince(ctx context.Context, userID string, since time.Time) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.subscription.countgenerations")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_generations WHERE user_id = $1 AND created_at >= $2;`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AddGeneration appends one usage row, to be counted against the free
// tier quota.
func (r *Repo) AddGeneration(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.subscription.addgeneration")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_generations (user_id, created_at) VALUES ($1, $2);`,
		userID, time.Now(),
	)
	return err
}
