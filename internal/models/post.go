package models

import "time"

// Post 文章
type Post struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                 // 主键
	BlogID      uint       `gorm:"index;not null" json:"blog_id"`                        // 所属博客
	AuthorID    uint       `gorm:"index;not null" json:"author_id"`                      // 作者
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`              // 标题
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`                     // 唯一标识（由标题派生）
	Abstract    string     `gorm:"type:text" json:"abstract"`                            // 摘要
	Content     string     `gorm:"type:text" json:"content"`                             // 正文
	ImageData   []byte     `json:"-"`                                                    // 封面二进制
	ContentType string     `gorm:"type:varchar(64);default:''" json:"content_type"`      // 封面 MIME
	ReadyStatus string     `gorm:"type:varchar(32);not null;index" json:"ready_status"`  // 就绪状态
	Version     uint       `gorm:"not null;default:1" json:"version"`                    // 乐观锁版本
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`     // 更新时间

	Author   *BlogUser `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Blog     *Blog     `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
	Tags     []Tag     `gorm:"foreignKey:PostID" json:"tags,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// HasImage 是否存在封面
func (p Post) HasImage() bool {
	return len(p.ImageData) > 0 && p.ContentType != ""
}
