package models

// Tag 文章标签（编辑文章时整体替换）
type Tag struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	PostID   uint   `gorm:"index;not null" json:"post_id"`
	AuthorID uint   `gorm:"index;not null" json:"author_id"`
	Text     string `gorm:"type:varchar(50);not null;index" json:"text"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
