package models

import "time"

// AuditLog records important operations for auditing. When an encryption key
// is configured, Path and Action stay empty and the encrypted copies go into
// PathEnc/ActionEnc.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID string    `gorm:"size:64;index" json:"request_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Method    string    `gorm:"size:16" json:"method"`
	Path      string    `gorm:"size:255" json:"path"`
	PathEnc   string    `gorm:"size:1024" json:"-"`
	Action    string    `gorm:"size:2048" json:"action"`
	ActionEnc string    `gorm:"size:4096" json:"-"`
	IP        string    `gorm:"size:64" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
