package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"burgerreview/internal/event"
	"burgerreview/internal/model"
	"burgerreview/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidPhotoURL = errors.New("photo url is not a valid url")
	ErrUserNotFound    = errors.New("user not found")
	// ErrPersistence hides store failures from callers; the cause is logged.
	ErrPersistence = errors.New("could not save review, please try again")
)

var validate = validator.New()

type ReviewCache interface {
	GetReviews(ctx context.Context, burgerID uint) ([]model.Review, bool, error)
	ReviewsVersion(ctx context.Context, burgerID uint) (int64, error)
	SetReviews(ctx context.Context, burgerID uint, version int64, reviews []model.Review) error
	InvalidateReviews(ctx context.Context, burgerID uint) error
}

type ReviewEventPublisher interface {
	Publish(ctx context.Context, evt event.ReviewCreated) error
}

type ReviewService struct {
	store     *repository.Store
	cache     ReviewCache
	publisher ReviewEventPublisher
	log       *zap.SugaredLogger
}

type CreateReviewInput struct {
	UserID   uint
	BurgerID uint
	Rating   int
	Comment  *string
	PhotoURL *string
}

func NewReviewService(store *repository.Store, cache ReviewCache, publisher ReviewEventPublisher, log *zap.SugaredLogger) *ReviewService {
	return &ReviewService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// CreateReview validates the input before touching the store, then checks
// both references and inserts the review in a single transaction.
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*model.Review, error) {
	if input.UserID == 0 || input.BurgerID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Rating < MinRating || input.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	photoURL := optional(input.PhotoURL)
	if photoURL != nil {
		if err := validate.Var(*photoURL, "url,max=250"); err != nil {
			return nil, ErrInvalidPhotoURL
		}
	}

	review := &model.Review{
		UserID:   input.UserID,
		BurgerID: input.BurgerID,
		Rating:   input.Rating,
		Comment:  optional(input.Comment),
		PhotoURL: photoURL,
	}

	var author *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByID(ctx, input.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		exists, err := tx.Burgers.Exists(ctx, input.BurgerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBurgerNotFound
		}
		author = user
		return tx.Reviews.Create(ctx, review)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrBurgerNotFound) {
			return nil, err
		}
		s.log.Errorw("create review failed",
			"user_id", input.UserID,
			"burger_id", input.BurgerID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	review.User = author

	if err := s.cache.InvalidateReviews(ctx, review.BurgerID); err != nil {
		s.log.Warnw("invalidate review cache failed", "burger_id", review.BurgerID, "error", err)
	}

	evt := event.ReviewCreated{
		ReviewID:  review.ID,
		BurgerID:  review.BurgerID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warnw("publish review event failed", "review_id", review.ID, "error", err)
	}
	return review, nil
}

func (s *ReviewService) ListReviewsForBurger(ctx context.Context, burgerID uint) ([]model.Review, error) {
	if burgerID == 0 {
		return nil, ErrInvalidInput
	}
	if cached, ok, err := s.cache.GetReviews(ctx, burgerID); err != nil {
		s.log.Warnw("read review cache failed", "burger_id", burgerID, "error", err)
	} else if ok {
		return cached, nil
	}

	// a review committed after this point bumps the generation and
	// discards the fill below
	version, versionErr := s.cache.ReviewsVersion(ctx, burgerID)
	reviews, err := s.store.Reviews.ListByBurgerID(ctx, burgerID)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		s.log.Warnw("read review cache generation failed", "burger_id", burgerID, "error", versionErr)
	} else if err := s.cache.SetReviews(ctx, burgerID, version, reviews); err != nil {
		s.log.Warnw("write review cache failed", "burger_id", burgerID, "error", err)
	}
	return reviews, nil
}
