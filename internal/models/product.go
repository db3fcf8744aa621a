package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Title     string          `gorm:"not null;size:255" json:"title"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
