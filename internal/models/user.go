// Package models contains data structures for the application's domain models.
package models

import "time"

// RoleUser is the only role assigned to accounts.
const RoleUser = "USER"

// User represents an account. The engine only reads users; credentials are
// managed elsewhere and the stored password is an opaque hash.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:USER" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
