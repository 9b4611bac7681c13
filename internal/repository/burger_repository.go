package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"burgerreview/internal/model"
)

type BurgerRepository struct {
	db *gorm.DB
}

func NewBurgerRepository(db *gorm.DB) *BurgerRepository {
	return &BurgerRepository{db: db}
}

func (r *BurgerRepository) Create(ctx context.Context, burger *model.Burger) error {
	if err := r.db.WithContext(ctx).Omit("Chain", "Rating").Create(burger).Error; err != nil {
		return fmt.Errorf("create burger failed: %w", err)
	}
	return nil
}

// GetByID loads the burger together with its chain and rating summary.
func (r *BurgerRepository) GetByID(ctx context.Context, id uint) (*model.Burger, error) {
	var burger model.Burger
	if err := r.db.WithContext(ctx).Preload("Chain").Preload("Rating").First(&burger, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query burger by id failed: %w", err)
	}
	return &burger, nil
}

// Exists checks for the row without loading associations.
func (r *BurgerRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Burger{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check burger exists failed: %w", err)
	}
	return count > 0, nil
}

func (r *BurgerRepository) List(ctx context.Context) ([]model.Burger, error) {
	burgers := make([]model.Burger, 0)
	if err := r.db.WithContext(ctx).Preload("Chain").Preload("Rating").Order("id ASC").Find(&burgers).Error; err != nil {
		return nil, fmt.Errorf("list burgers failed: %w", err)
	}
	return burgers, nil
}
