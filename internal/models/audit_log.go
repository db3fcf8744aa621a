package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`           // Nullable for failed logins
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g. "SIGNUP", "CREATE_PRODUCT", "PLACE_ORDER"
	EntityID  string    `gorm:"size:50" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Browser   string    `gorm:"size:100" json:"browser"`
	OS        string    `gorm:"size:100" json:"os"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}
