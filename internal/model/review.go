package model

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BurgerID  uint      `gorm:"not null;index" json:"burger_id"`
	Burger    *Burger   `gorm:"foreignKey:BurgerID" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	PhotoURL  *string   `gorm:"column:photo_url;size:250" json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
}
