package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post limits, in characters.
const (
	MaxDescriptionLength = 1000
	MaxCommentLength     = 500
)

// Post is a feed entry. Username and ProfilePicture are copied from the author
// when the post is created and are not re-synced afterwards.
//
// The three counters are denormalized views over post_likes, post_saves and
// comments. They only change inside the transaction that inserts or deletes
// the matching fact row.
type Post struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Username       string    `gorm:"size:50;not null" json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	MediaURLsRaw   string    `gorm:"column:media_urls;type:text" json:"-"`
	MediaTypesRaw  string    `gorm:"column:media_types;type:text" json:"-"`
	MediaURLs      []string  `gorm:"-" json:"media_urls"`
	MediaTypes     []string  `gorm:"-" json:"media_types"`
	LikesCount     int64     `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount  int64     `gorm:"not null;default:0" json:"comments_count"`
	SavesCount     int64     `gorm:"not null;default:0" json:"saves_count"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MediaItem pairs a media URL with its declared type.
type MediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Media returns the positional (url, type) pairs of the post.
func (p *Post) Media() []MediaItem {
	items := make([]MediaItem, 0, len(p.MediaURLs))
	for i, u := range p.MediaURLs {
		item := MediaItem{URL: u}
		if i < len(p.MediaTypes) {
			item.Type = p.MediaTypes[i]
		}
		items = append(items, item)
	}
	return items
}

// BeforeSave flattens the media lists into their stored columns.
func (p *Post) BeforeSave(_ *gorm.DB) error {
	p.MediaURLsRaw = JoinMediaList(p.MediaURLs)
	p.MediaTypesRaw = JoinMediaList(p.MediaTypes)
	return nil
}

// AfterFind expands the stored media columns.
func (p *Post) AfterFind(_ *gorm.DB) error {
	p.MediaURLs = SplitMediaList(p.MediaURLsRaw)
	p.MediaTypes = SplitMediaList(p.MediaTypesRaw)
	return nil
}

// JoinMediaList encodes a media list as a comma-joined column value.
func JoinMediaList(items []string) string {
	return strings.Join(items, ",")
}

// SplitMediaList decodes a comma-joined column value. An empty value is an
// empty list.
func SplitMediaList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}
