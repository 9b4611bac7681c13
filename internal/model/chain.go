package model

type Chain struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Location *string `gorm:"size:200" json:"location"`
}
