package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the per-entity repositories over one gorm handle so a service
// can run several of them inside a single transaction.
type Store struct {
	db *gorm.DB

	Users   *UserRepository
	Chains  *ChainRepository
	Burgers *BurgerRepository
	Reviews *ReviewRepository
	Ratings *RatingRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Users:   NewUserRepository(db),
		Chains:  NewChainRepository(db),
		Burgers: NewBurgerRepository(db),
		Reviews: NewReviewRepository(db),
		Ratings: NewRatingRepository(db),
	}
}

// Transaction runs fn against a Store bound to one database transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
