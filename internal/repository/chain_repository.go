package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"burgerreview/internal/model"
)

type ChainRepository struct {
	db *gorm.DB
}

func NewChainRepository(db *gorm.DB) *ChainRepository {
	return &ChainRepository{db: db}
}

func (r *ChainRepository) Create(ctx context.Context, chain *model.Chain) error {
	if err := r.db.WithContext(ctx).Create(chain).Error; err != nil {
		return fmt.Errorf("create chain failed: %w", err)
	}
	return nil
}

func (r *ChainRepository) GetByID(ctx context.Context, id uint) (*model.Chain, error) {
	var chain model.Chain
	if err := r.db.WithContext(ctx).First(&chain, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query chain by id failed: %w", err)
	}
	return &chain, nil
}

func (r *ChainRepository) GetByName(ctx context.Context, name string) (*model.Chain, error) {
	var chain model.Chain
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&chain).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query chain by name failed: %w", err)
	}
	return &chain, nil
}

func (r *ChainRepository) List(ctx context.Context) ([]model.Chain, error) {
	chains := make([]model.Chain, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&chains).Error; err != nil {
		return nil, fmt.Errorf("list chains failed: %w", err)
	}
	return chains, nil
}
