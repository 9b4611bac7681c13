package model

import "time"

type Burger struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	ChainID     uint          `gorm:"not null;index" json:"chain_id"`
	Chain       *Chain        `gorm:"foreignKey:ChainID" json:"chain,omitempty"`
	Description *string       `gorm:"type:text" json:"description"`
	Rating      *BurgerRating `gorm:"foreignKey:BurgerID" json:"rating,omitempty"`
}

// BurgerRating is the denormalised review summary of one burger. It is
// rebuilt from the reviews table whenever a review for the burger is created.
type BurgerRating struct {
	BurgerID    uint      `gorm:"primaryKey;autoIncrement:false" json:"burger_id"`
	ReviewCount int64     `gorm:"not null" json:"review_count"`
	RatingSum   int64     `gorm:"not null" json:"rating_sum"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r BurgerRating) Average() float64 {
	if r.ReviewCount == 0 {
		return 0
	}
	return float64(r.RatingSum) / float64(r.ReviewCount)
}
