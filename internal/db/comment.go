package db

import "gorm.io/gorm"

// Comment 定义了评论模型，支持一级回复
type Comment struct {
	gorm.Model
	Content  string `gorm:"not null"`
	UserID   uint   `gorm:"index;not null"`
	User     User
	PostID   uint `gorm:"index;not null"`
	ParentID *uint
	Replies  []Comment `gorm:"foreignKey:ParentID"`
}
