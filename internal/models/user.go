package models

import "time"

// User represents application user.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:64;index;not null" json:"name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	PhoneNumber    string    `gorm:"size:32" json:"phone_number"`
	Region         string    `gorm:"size:2;not null;default:RU" json:"region"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Accounts   []Account  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Categories []Category `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Budgets    []Budget   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Goals      []Goal     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
