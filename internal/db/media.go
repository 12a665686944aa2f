package db

import "gorm.io/gorm"

const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeAudio    = "audio"
	MediaTypeDocument = "document"
)

// Media 定义了文章附件模型
type Media struct {
	gorm.Model
	PostID  uint `gorm:"index;not null"`
	Post    Post
	FileURL string `gorm:"not null"`
	Type    string `gorm:"size:16;not null"`
	Width   int
	Height  int
}
