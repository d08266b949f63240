package public

import (
	"net/http"
	"strings"

	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPosts 已发布文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	page := handlershared.QueryPage(c)
	posts, total, err := h.PostService.ListPublished(page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, h.PostService.PageSize(), total))
}

// SearchPosts 全文检索已发布文章（标题/摘要/正文/标签/评论）
func (h *Handler) SearchPosts(c *gin.Context) {
	page := handlershared.QueryPage(c)
	term := strings.TrimSpace(c.Query("q"))
	posts, total, err := h.PostService.Search(term, page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, h.PostService.PageSize(), total))
}

// GetPostBySlug 文章详情（含可见评论与标签云）
func (h *Handler) GetPostBySlug(c *gin.Context) {
	detail, err := h.PostService.GetBySlug(c.Request.Context(), currentActor(c), c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.post_fetch_failed")
		return
	}
	response.Success(c, detail)
}

// GetPostImage 输出文章封面原始字节
func (h *Handler) GetPostImage(c *gin.Context) {
	image, err := h.PostService.GetImage(currentActor(c), c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.post_fetch_failed")
		return
	}
	c.Data(http.StatusOK, image.ContentType, image.Data)
}

// GetTags 全站标签云
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.PostService.TagCloud(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.tag_fetch_failed", err)
		return
	}
	response.Success(c, tags)
}

// GetTagPosts 指定标签下的已发布文章
func (h *Handler) GetTagPosts(c *gin.Context) {
	page := handlershared.QueryPage(c)
	posts, total, err := h.PostService.ListByTag(c.Param("tag"), page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, h.PostService.PageSize(), total))
}

