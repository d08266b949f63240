package public

import (
	"github.com/inkwell-next/internal/constants"
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactRequest 联系表单请求
type ContactRequest struct {
	Name           string                              `json:"name"`
	Email          string                              `json:"email"`
	Subject        string                              `json:"subject"`
	Phone          string                              `json:"phone"`
	Message        string                              `json:"message"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SubmitContact 提交联系表单，队列启用时异步投递
func (h *Handler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !handlershared.VerifyCaptcha(c, h.CaptchaService, constants.CaptchaSceneContact, req.CaptchaPayload) {
		return
	}

	result, err := h.ContactService.Submit(c.Request.Context(), currentActor(c), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		respondWithMappedError(c, err, contactEcho(req), contactErrorRules, "error.contact_send_failed")
		return
	}
	response.Success(c, result)
}

func contactEcho(req ContactRequest) gin.H {
	return gin.H{
		"name":    req.Name,
		"email":   req.Email,
		"subject": req.Subject,
		"phone":   req.Phone,
		"message": req.Message,
	}
}
