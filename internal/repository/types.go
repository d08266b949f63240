package repository

import "time"

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page        int
	PageSize    int
	BlogID      uint
	Tag         string
	Search      string
	ReadyStatus string
	// OnlyPublished 仅返回 production_ready 文章
	OnlyPublished bool
}

// CommentListFilter 查询评论审核队列的过滤条件
type CommentListFilter struct {
	Page     int
	PageSize int
	View     string
	PostID   uint
}

// BlogListFilter 查询博客列表的过滤条件
type BlogListFilter struct {
	Page     int
	PageSize int
	AuthorID uint
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

// AuditLogListFilter 查询审计日志的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	ActorUserID uint
	Action      string
	TargetType  string
	TargetID    uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
