package app

import (
	"context"

	"go.uber.org/zap"

	"burgerreview/internal/event"
	"burgerreview/internal/model"
	"burgerreview/internal/repository"
)

type BurgerListInvalidator interface {
	InvalidateBurgers(ctx context.Context) error
}

// RatingService keeps burger_ratings in step with the reviews table. It
// recomputes the whole summary on every event, so replays are harmless.
type RatingService struct {
	store *repository.Store
	cache BurgerListInvalidator
	log   *zap.SugaredLogger
}

var _ event.Handler = (*RatingService)(nil)

func NewRatingService(store *repository.Store, cache BurgerListInvalidator, log *zap.SugaredLogger) *RatingService {
	return &RatingService{store: store, cache: cache, log: log}
}

func (s *RatingService) HandleReviewCreated(ctx context.Context, evt event.ReviewCreated) error {
	if evt.BurgerID == 0 {
		return ErrInvalidInput
	}
	return s.Recompute(ctx, evt.BurgerID)
}

func (s *RatingService) Recompute(ctx context.Context, burgerID uint) error {
	summary, err := s.store.Reviews.SummarizeByBurgerID(ctx, burgerID)
	if err != nil {
		return err
	}

	rating := &model.BurgerRating{
		BurgerID:    burgerID,
		ReviewCount: summary.ReviewCount,
		RatingSum:   summary.RatingSum,
	}
	if err := s.store.Ratings.Upsert(ctx, rating); err != nil {
		return err
	}

	if err := s.cache.InvalidateBurgers(ctx); err != nil {
		s.log.Warnw("invalidate burger cache failed", "burger_id", burgerID, "error", err)
	}
	s.log.Debugw("burger rating updated",
		"burger_id", burgerID,
		"review_count", rating.ReviewCount,
		"average", rating.Average(),
	)
	return nil
}
