package public

import (
	"github.com/inkwell-next/internal/constants"
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email          string                              `json:"email"`
	Password       string                              `json:"password"`
	FirstName      string                              `json:"first_name"`
	LastName       string                              `json:"last_name"`
	DisplayName    string                              `json:"display_name"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !handlershared.VerifyCaptcha(c, h.CaptchaService, constants.CaptchaSceneRegister, req.CaptchaPayload) {
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondWithMappedError(c, err, gin.H{
			"email":        req.Email,
			"first_name":   req.FirstName,
			"last_name":    req.LastName,
			"display_name": req.DisplayName,
		}, registerErrorRules, "error.register_failed")
		return
	}

	response.Success(c, gin.H{
		"user":       userProfileResponse(user, nil),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                              `json:"email" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	RememberMe     bool                                `json:"remember_me"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !handlershared.VerifyCaptcha(c, h.CaptchaService, constants.CaptchaSceneLogin, req.CaptchaPayload) {
		return
	}

	user, token, expiresAt, err := h.UserAuthService.LoginWithRememberMe(req.Email, req.Password, req.RememberMe)
	if err != nil {
		handlershared.RequestLog(c).Infow("user_login_failed", "email", req.Email, "client_ip", c.ClientIP(), "reason", err.Error())
		respondWithMappedError(c, err, gin.H{"email": req.Email}, loginErrorRules, "error.login_failed")
		return
	}

	roles, err := h.UserRoleService.RolesOf(user.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_failed", err)
		return
	}
	response.Success(c, gin.H{
		"user":       userProfileResponse(user, roles),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetCurrentUser 获取当前用户信息（含角色）
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(id)
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.user_fetch_failed")
		return
	}
	roles, err := h.UserRoleService.RolesOf(user.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, userProfileResponse(user, roles))
}

// ChangeUserPasswordRequest 用户改密请求
type ChangeUserPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangeUserPassword 用户登录态修改密码
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req ChangeUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, nil, changePasswordErrorRules, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

func userProfileResponse(user *models.BlogUser, roles []string) gin.H {
	if roles == nil {
		roles = []string{}
	}
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"full_name":     user.FullName(),
		"display_name":  user.DisplayName,
		"social_links":  user.SocialLinks,
		"roles":         roles,
		"last_login_at": user.LastLoginAt,
	}
}
