package models

import "time"

// DefaultHeadline is shown for users that have not set a headline.
const DefaultHeadline = "LinkSphere User"

// Profile field limits, in characters.
const (
	MaxHeadlineLength = 100
	MaxAboutLength    = 500
	MaxSkillsLength   = 255
)

// Profile holds the optional public details of a user. Education, experience,
// location and contact info are stored as opaque text and never parsed.
type Profile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Headline       string    `gorm:"size:100" json:"headline"`
	About          string    `gorm:"type:text" json:"about"`
	Skills         string    `gorm:"size:255" json:"skills"`
	ProfilePicture string    `json:"profile_picture"`
	Education      string    `gorm:"type:text" json:"education"`
	Experience     string    `gorm:"type:text" json:"experience"`
	Location       string    `json:"location"`
	ContactInfo    string    `gorm:"type:text" json:"contact_info"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
