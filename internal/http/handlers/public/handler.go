package public

import "github.com/inkwell-next/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于游客、读者侧 API（文章、博客、评论、联系表单、账号）。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
