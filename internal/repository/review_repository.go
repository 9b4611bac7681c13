package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burgerreview/internal/model"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Omit("User", "Burger").Create(review).Error; err != nil {
		return fmt.Errorf("create review failed: %w", err)
	}
	return nil
}

// ListByBurgerID returns the burger's reviews in insertion order with their
// authors preloaded.
func (r *ReviewRepository) ListByBurgerID(ctx context.Context, burgerID uint) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	if err := r.db.WithContext(ctx).Preload("User").Where("burger_id = ?", burgerID).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews failed: %w", err)
	}
	return reviews, nil
}

type ReviewSummary struct {
	ReviewCount int64
	RatingSum   int64
}

func (r *ReviewRepository) SummarizeByBurgerID(ctx context.Context, burgerID uint) (ReviewSummary, error) {
	var summary ReviewSummary
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COUNT(*) AS review_count, COALESCE(SUM(rating), 0) AS rating_sum").
		Where("burger_id = ?", burgerID).
		Scan(&summary).Error
	if err != nil {
		return ReviewSummary{}, fmt.Errorf("summarize reviews failed: %w", err)
	}
	return summary, nil
}
