package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// FreeTierQuota is the number of plan generations a free user gets
	// within the trailing UsageWindow. An earlier frontend build showed
	// 100 while payments were tested, 3 is the real product limit.
	FreeTierQuota = 3
	UsageWindow   = 30 * 24 * time.Hour

	statusCacheExpireSeconds = 60
)

type subscriptionRepo interface {
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)
	CountGenerationsSince(ctx context.Context, userID string, since time.Time) (int, error)
	AddGeneration(ctx context.Context, userID string) error
}

type Service struct {
	repo        subscriptionRepo
	statusCache *freecache.Cache
	nowFunc     func() time.Time
}

func NewService(repo subscriptionRepo) *Service {
	megabyte := 1024 * 1024
	return &Service{
		repo:        repo,
		statusCache: freecache.NewCache(megabyte),
		nowFunc:     time.Now,
	}
}

// CanGenerate tells whether the user may request another workout plan.
// Pro users are unlimited, free users get FreeTierQuota generations per
// trailing UsageWindow. Every lookup failure denies generation: a
// datastore hiccup must not hand out free upgrades.
func (s *Service) CanGenerate(ctx context.Context, userID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.subscription.cangenerate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return false, fmt.Errorf("get subscription: %w", err)
	}
	if sub != nil && sub.IsPro() {
		span.SetAttributes(attribute.Bool("pro", true))
		return true, nil
	}

	windowStart := s.nowFunc().Add(-UsageWindow)
	count, err := s.repo.CountGenerationsSince(ctx, userID, windowStart)
	if err != nil {
		return false, fmt.Errorf("count generations: %w", err)
	}

	span.SetAttributes(attribute.Int("generations.used", count))
	return count < FreeTierQuota, nil
}

// RecordGeneration books one successful generation against the user.
func (s *Service) RecordGeneration(ctx context.Context, userID string) error {
	return s.repo.AddGeneration(ctx, userID)
}

type Status struct {
	IsPro  bool   `json:"isPro"`
	Status string `json:"status"`
}

// GetStatus returns the user's subscription status, "free" when no
// subscription row exists. Responses are cached briefly, the frontend
// polls this on every page load.
func (s *Service) GetStatus(ctx context.Context, userID string) (_ Status, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.subscription.getstatus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	cacheKey := []byte("substatus::" + userID)
	if cachedStatus, err := s.statusCache.Get(cacheKey); err == nil {
		log.Tracef("subscription status for %s found in cache", userID)
		status := string(cachedStatus)
		return Status{
			IsPro:  status == StatusActive || status == StatusTrialing,
			Status: status,
		}, nil
	}

	sub, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return Status{IsPro: false, Status: StatusFree}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("get subscription: %w", err)
	}

	if err := s.statusCache.Set(cacheKey, []byte(sub.Status), statusCacheExpireSeconds); err != nil {
		log.Errorf("failed to cache subscription status for %s: %s", userID, err)
	}

	return Status{
		IsPro:  sub.IsPro(),
		Status: sub.Status,
	}, nil
}

// InvalidateStatus drops the cached status, called when a webhook
// changes the subscription row.
func (s *Service) InvalidateStatus(userID string) {
	if userID == "" {
		return
	}
	s.statusCache.Del([]byte("substatus::" + userID))
}
