package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// BlogUser 博客用户（作者/读者/审核员共用账号）
type BlogUser struct {
	ID           uint              `gorm:"primarykey" json:"id"`                            // 主键
	Email        string            `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱
	PasswordHash string            `gorm:"not null" json:"-"`                               // 密码哈希（不返回给前端）
	FirstName    string            `gorm:"type:varchar(50);not null" json:"first_name"`     // 名
	LastName     string            `gorm:"type:varchar(50);not null" json:"last_name"`      // 姓
	DisplayName  string            `gorm:"type:varchar(50);default:''" json:"display_name"` // 昵称
	ImageData    []byte            `json:"-"`                                               // 头像二进制
	ContentType  string            `gorm:"type:varchar(64);default:''" json:"content_type"` // 头像 MIME
	SocialLinks  datatypes.JSONMap `json:"social_links"`                                    // 社交链接（github/linkedin/personal）
	Status       string            `gorm:"default:'active';index" json:"status"`            // 账号状态
	TokenVersion uint64            `gorm:"not null;default:0" json:"-"`                     // Token 版本（用于全量失效）
	LastLoginAt  *time.Time        `json:"last_login_at"`                                   // 最后登录时间
	CreatedAt    time.Time         `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time         `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (BlogUser) TableName() string {
	return "blog_users"
}

// FullName 返回姓名全称
func (u BlogUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
