package admin

import (
	"github.com/inkwell-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SetUserRolesRequest 覆盖用户角色请求
type SetUserRolesRequest struct {
	Roles []string `json:"roles"`
}

// GetUserRoles 查询用户的有效角色（含继承）
func (h *Handler) GetUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "error.user_id_invalid")
	if !ok {
		return
	}
	roles, err := h.UserRoleService.GetUserRoles(currentActor(c), userID)
	if err != nil {
		respondWithMappedError(c, err, nil, userRoleErrorRules, "error.user_fetch_failed")
		return
	}
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}

// SetUserRoles 覆盖用户角色
func (h *Handler) SetUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "error.user_id_invalid")
	if !ok {
		return
	}
	var req SetUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	roles, err := h.UserRoleService.SetUserRoles(currentActor(c), userID, req.Roles)
	if err != nil {
		respondWithMappedError(c, err, req, userRoleErrorRules, "error.save_failed")
		return
	}
	requestLog(c).Infow("admin_user_roles_updated", "target_user_id", userID, "roles", roles)
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}
