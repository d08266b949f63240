package models

import "time"

// Blog 博客
type Blog struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	AuthorID    uint       `gorm:"index;not null" json:"author_id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Description string     `gorm:"type:varchar(500);not null" json:"description"`
	ImageData   []byte     `json:"-"`
	ContentType string     `gorm:"type:varchar(64);default:''" json:"content_type"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	Author *BlogUser `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName 指定表名
func (Blog) TableName() string {
	return "blogs"
}
