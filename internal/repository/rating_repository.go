package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"burgerreview/internal/model"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert writes the summary row, replacing the counters of an existing one.
func (r *RatingRepository) Upsert(ctx context.Context, rating *model.BurgerRating) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "burger_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"review_count", "rating_sum", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return fmt.Errorf("upsert burger rating failed: %w", err)
	}
	return nil
}
