package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null;size:120;index" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	AuthToken    string    `gorm:"unique;index;size:36" json:"-"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Products     []Product `gorm:"foreignKey:UserID" json:"products,omitempty"`
	Orders       []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

// ProductIDs returns the ids of the user's loaded products, never nil so the
// serialized form is always a JSON array.
func (u *User) ProductIDs() []uint {
	ids := make([]uint, 0, len(u.Products))
	for _, p := range u.Products {
		ids = append(ids, p.ID)
	}
	return ids
}
