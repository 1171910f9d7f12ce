package models

import "time"

// Connection is one directed edge of the connection graph. A symmetric
// connection between A and B is always stored as both (A,B) and (B,A).
type Connection struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_connection_pair" json:"user_id"`
	ConnectedUserID uint      `gorm:"not null;uniqueIndex:idx_connection_pair;index" json:"connected_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ConnectionSummary is the read model for connection and suggestion lists.
// Display fields are joined from users and profiles at read time.
type ConnectionSummary struct {
	UserID         uint       `json:"id"`
	Username       string     `json:"username"`
	Headline       string     `json:"headline"`
	ProfilePicture string     `json:"profile_picture"`
	ConnectedAt    *time.Time `json:"connected_at,omitempty"`
}
