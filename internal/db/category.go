package db

import "gorm.io/gorm"

// Category 定义了分类模型
type Category struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	Posts       []Post `gorm:"many2many:post_categories;"`

	// 非数据库字段，列表查询时填充
	PostCount int64 `gorm:"-" json:"post_count"`
}
