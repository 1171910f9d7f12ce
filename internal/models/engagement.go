package models

import "time"

// EngagementKind selects one of the binary engagement ledgers.
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementSave EngagementKind = "save"
)

// Valid reports whether k names a known ledger.
func (k EngagementKind) Valid() bool {
	return k == EngagementLike || k == EngagementSave
}

// Table is the fact table backing the ledger.
func (k EngagementKind) Table() string {
	if k == EngagementSave {
		return "post_saves"
	}
	return "post_likes"
}

// CounterColumn is the posts column that mirrors the ledger's row count.
func (k EngagementKind) CounterColumn() string {
	if k == EngagementSave {
		return "saves_count"
	}
	return "likes_count"
}

// PostLike records that a user likes a post. At most one row exists per
// (post, user).
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostSave records that a user saved a post. At most one row exists per
// (post, user).
type PostSave struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_save_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_save_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CounterDrift describes a post whose stored counter disagrees with the
// number of fact rows behind it.
type CounterDrift struct {
	PostID  uint   `json:"post_id"`
	Counter string `json:"counter"`
	Stored  int64  `json:"stored"`
	Actual  int64  `json:"actual"`
}
