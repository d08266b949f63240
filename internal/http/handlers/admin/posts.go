package admin

import (
	"errors"
	"net/http"
	"strings"

	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 创建/编辑文章请求，支持 JSON 与 multipart 表单（封面字段 image）
type PostRequest struct {
	BlogID      uint     `json:"blog_id" form:"blog_id"`
	Title       string   `json:"title" form:"title"`
	Abstract    string   `json:"abstract" form:"abstract"`
	Content     string   `json:"content" form:"content"`
	ReadyStatus string   `json:"ready_status" form:"ready_status"`
	Tags        []string `json:"tags" form:"tags"`
	Version     uint     `json:"version" form:"version"`
}

// GetAdminPosts 文章列表（含预发布）
func (h *Handler) GetAdminPosts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	posts, total, err := h.PostService.ListAdmin(page, pageSize, strings.TrimSpace(c.Query("ready_status")))
	if err != nil {
		respondWithMappedError(c, err, nil, postWriteErrorRules, "error.post_fetch_failed")
		return
	}
	response.SuccessWithPage(c, posts, response.NewPagination(page, pageSize, total))
}

// GetAdminPost 文章详情（任意就绪状态）
func (h *Handler) GetAdminPost(c *gin.Context) {
	id, ok := parseIDParam(c, "error.post_id_invalid")
	if !ok {
		return
	}
	post, err := h.PostService.GetAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.post_fetch_failed")
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	input, req, ok := h.bindPostInput(c)
	if !ok {
		return
	}
	post, err := h.PostService.Create(c.Request.Context(), currentActor(c), input)
	if err != nil {
		respondWithMappedError(c, err, req, postWriteErrorRules, "error.post_create_failed")
		return
	}
	response.Success(c, post)
}

// UpdatePost 编辑文章（slug 随标题重新派生）
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c, "error.post_id_invalid")
	if !ok {
		return
	}
	input, req, ok := h.bindPostInput(c)
	if !ok {
		return
	}
	post, err := h.PostService.Update(c.Request.Context(), currentActor(c), id, input)
	if err != nil {
		respondWithMappedError(c, err, req, postWriteErrorRules, "error.post_update_failed")
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章（级联删除标签与评论）
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseIDParam(c, "error.post_id_invalid")
	if !ok {
		return
	}
	slug, err := h.PostService.Delete(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.post_delete_failed")
		return
	}
	requestLog(c).Infow("admin_post_deleted", "post_id", id, "slug", slug)
	response.Success(c, gin.H{"id": id, "slug": slug})
}

func (h *Handler) bindPostInput(c *gin.Context) (service.PostInput, PostRequest, bool) {
	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PostInput{}, req, false
	}
	input := service.PostInput{
		BlogID:      req.BlogID,
		Title:       req.Title,
		Abstract:    req.Abstract,
		Content:     req.Content,
		ReadyStatus: req.ReadyStatus,
		Tags:        splitTags(req.Tags),
		Version:     req.Version,
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil:
		image, encodeErr := h.ImageService.Encode(file)
		if encodeErr != nil {
			respondWithMappedError(c, encodeErr, req, postWriteErrorRules, "error.upload_failed")
			return service.PostInput{}, req, false
		}
		input.Image = image
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return service.PostInput{}, req, false
	}
	return input, req, true
}

// splitTags 兼容表单中以逗号分隔的标签
func splitTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, item := range raw {
		if !strings.Contains(item, ",") {
			tags = append(tags, item)
			continue
		}
		tags = append(tags, strings.Split(item, ",")...)
	}
	return tags
}
