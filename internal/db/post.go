package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusScheduled = "scheduled"
)

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title      string `gorm:"not null"`
	Content    string
	Status     string `gorm:"default:draft;not null;index"`
	PublishAt  *time.Time
	UserID     uint `gorm:"index;not null"`
	User       User
	Tags       []Tag      `gorm:"many2many:post_tags;"`
	Categories []Category `gorm:"many2many:post_categories;"`
}

// Visible reports whether the post can be served to readers at the given time.
// A published post with a future publish time is still gated.
func (p *Post) Visible(now time.Time) bool {
	if p.Status != PostStatusPublished {
		return false
	}
	if p.PublishAt != nil && p.PublishAt.After(now) {
		return false
	}
	return true
}
