package models

import (
	"time"

	"github.com/inkwell-next/internal/constants"
)

// Comment 文章评论
// 说明：State 为显式生命周期状态，ModeratedAt/DeletedAt 仅记录迁移时间；原始 Body 永不覆盖。
type Comment struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	PostID         uint       `gorm:"index;not null" json:"post_id"`
	AuthorID       uint       `gorm:"index;not null" json:"author_id"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	ModeratedBody  *string    `gorm:"type:text" json:"moderated_body,omitempty"`
	ModerationType string     `gorm:"type:varchar(32);default:''" json:"moderation_type,omitempty"`
	ModeratorID    *uint      `gorm:"index" json:"moderator_id,omitempty"`
	State          string     `gorm:"type:varchar(20);not null;index;default:'pending'" json:"state"`
	Version        uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	ModeratedAt    *time.Time `gorm:"index" json:"moderated_at,omitempty"`
	DeletedAt      *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Author    *BlogUser `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Moderator *BlogUser `gorm:"foreignKey:ModeratorID" json:"moderator,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// IsPubliclyVisible 是否对读者可见
func (c Comment) IsPubliclyVisible() bool {
	return c.State == constants.CommentStateModerated
}

// DisplayBody 面向读者展示的正文
func (c Comment) DisplayBody() string {
	if c.ModeratedBody != nil {
		return *c.ModeratedBody
	}
	return c.Body
}
