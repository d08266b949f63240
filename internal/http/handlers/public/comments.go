package public

import (
	"github.com/inkwell-next/internal/constants"
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	Body           string                              `json:"body"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// CreateComment 发表评论，新评论进入待审核队列
func (h *Handler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !handlershared.VerifyCaptcha(c, h.CaptchaService, constants.CaptchaSceneCommentCreate, req.CaptchaPayload) {
		return
	}

	result, err := h.CommentService.Create(c.Request.Context(), currentActor(c), service.CreateCommentInput{
		PostSlug: c.Param("slug"),
		Body:     req.Body,
	})
	if err != nil {
		respondWithMappedError(c, err, gin.H{"body": req.Body}, commentCreateErrorRules, "error.comment_create_failed")
		return
	}
	response.Success(c, result)
}
