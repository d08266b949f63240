package admin

import (
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListComments 评论审核队列（view=unmoderated|moderated|deleted）
func (h *Handler) ListComments(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	view := service.NormalizeCommentView(c.Query("view"))

	comments, total, err := h.CommentService.List(currentActor(c), view, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.comment_fetch_failed")
		return
	}
	response.SuccessWithPage(c, gin.H{"view": view, "items": comments}, response.NewPagination(page, pageSize, total))
}

// GetComment 按 ID 查询评论（含软删除）
func (h *Handler) GetComment(c *gin.Context) {
	id, ok := parseIDParam(c, "error.comment_id_invalid")
	if !ok {
		return
	}
	comment, err := h.CommentService.Get(currentActor(c), id)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.comment_fetch_failed")
		return
	}
	response.Success(c, comment)
}

// ModerateCommentRequest 审核评论请求
type ModerateCommentRequest struct {
	CommentID      uint   `json:"comment_id"`
	ModeratedBody  string `json:"moderated_body"`
	ModerationType string `json:"moderation_type"`
	Version        uint   `json:"version"`
}

// ModerateComment 审核评论，返回父文章 slug 与评论区锚点
func (h *Handler) ModerateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "error.comment_id_invalid")
	if !ok {
		return
	}
	var req ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.CommentID == 0 {
		req.CommentID = id
	}

	result, err := h.CommentService.Moderate(c.Request.Context(), currentActor(c), id, service.ModerateCommentInput{
		CommentID:      req.CommentID,
		ModeratedBody:  req.ModeratedBody,
		ModerationType: req.ModerationType,
		Version:        req.Version,
	})
	if err != nil {
		respondWithMappedError(c, err, req, commentWriteErrorRules, "error.comment_moderate_failed")
		return
	}
	response.Success(c, result)
}

// DeleteComment 删除评论：默认软删除，hard_delete=true 时物理删除
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "error.comment_id_invalid")
	if !ok {
		return
	}
	version, err := parseUintQuery(c, "version")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.CommentService.Delete(c.Request.Context(), currentActor(c), id, service.DeleteCommentInput{
		HardDelete: parseBoolQuery(c, "hard_delete"),
		Version:    version,
	})
	if err != nil {
		respondWithMappedError(c, err, nil, commentWriteErrorRules, "error.comment_delete_failed")
		return
	}
	response.Success(c, result)
}
