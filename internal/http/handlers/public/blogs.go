package public

import (
	"net/http"

	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetBlogs 博客列表
func (h *Handler) GetBlogs(c *gin.Context) {
	page := handlershared.QueryPage(c)
	blogs, total, err := h.BlogService.List(page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.blog_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, blogs, response.NewPagination(page, h.BlogService.PageSize(), total))
}

// GetBlog 博客详情
func (h *Handler) GetBlog(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.blog_id_invalid")
	if !ok {
		return
	}
	blog, err := h.BlogService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.blog_fetch_failed")
		return
	}
	response.Success(c, blog)
}

// GetBlogImage 输出博客封面原始字节
func (h *Handler) GetBlogImage(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.blog_id_invalid")
	if !ok {
		return
	}
	blog, err := h.BlogService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.blog_fetch_failed")
		return
	}
	if len(blog.ImageData) == 0 || blog.ContentType == "" {
		respondError(c, response.CodeNotFound, "error.image_not_found", nil)
		return
	}
	c.Data(http.StatusOK, blog.ContentType, blog.ImageData)
}

// GetBlogPosts 博客下的已发布文章
func (h *Handler) GetBlogPosts(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.blog_id_invalid")
	if !ok {
		return
	}
	page := handlershared.QueryPage(c)
	posts, total, err := h.PostService.ListByBlog(id, page)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.post_fetch_failed")
		return
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, h.PostService.PageSize(), total))
}
