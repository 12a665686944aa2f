package db

import "gorm.io/gorm"

const (
	EntityTypePost    = "post"
	EntityTypeComment = "comment"
)

const (
	ReactionLike    = "like"
	ReactionLove    = "love"
	ReactionDislike = "dislike"
)

// Reaction 定义了用户对文章或评论的反应。
// (user_id, entity_type, entity_id) 唯一索引保证每个用户对同一目标只有一条记录。
type Reaction struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex:idx_reactions_user_entity;not null"`
	EntityType string `gorm:"uniqueIndex:idx_reactions_user_entity;size:16;not null"`
	EntityID   uint   `gorm:"uniqueIndex:idx_reactions_user_entity;not null"`
	Kind       string `gorm:"size:16;not null"`
}
