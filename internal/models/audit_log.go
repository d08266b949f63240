package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog 审核与权限变更审计日志
// 说明：记录评论审核/删除、文章变更与角色调整，便于追溯操作人。
type AuditLog struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	ActorUserID uint              `gorm:"index;not null" json:"actor_user_id"`
	Action      string            `gorm:"type:varchar(64);index;not null" json:"action"`
	TargetType  string            `gorm:"type:varchar(32);index;not null" json:"target_type"`
	TargetID    uint              `gorm:"index;not null" json:"target_id"`
	FromState   string            `gorm:"type:varchar(32);default:''" json:"from_state,omitempty"`
	ToState     string            `gorm:"type:varchar(32);default:''" json:"to_state,omitempty"`
	RequestID   string            `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	Detail      datatypes.JSONMap `json:"detail,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
