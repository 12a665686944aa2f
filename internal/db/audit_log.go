package db

import "time"

// AuditLog 定义了审计日志模型，只追加，核心代码不会修改或删除。
type AuditLog struct {
	ID         uint `gorm:"primarykey"`
	UserID     uint `gorm:"index;not null"`
	User       User
	Action     string  `gorm:"size:32;not null"`
	EntityType *string `gorm:"size:16;index:idx_audit_entity"`
	EntityID   *uint   `gorm:"index:idx_audit_entity"`
	CreatedAt  time.Time
}
