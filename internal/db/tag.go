package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	Posts       []Post `gorm:"many2many:post_tags;"`

	// 非数据库字段，列表查询时填充
	PostCount int64 `gorm:"-" json:"post_count"`
}
