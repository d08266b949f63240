package service

import "github.com/inkwell-next/internal/constants"

// Actor 操作者身份，由调用方显式传入
type Actor struct {
	UserID    uint
	Roles     []string
	RequestID string
}

// HasRole 是否拥有指定角色（角色名不含前缀）
func (a Actor) HasRole(role string) bool {
	for _, item := range a.Roles {
		if item == role {
			return true
		}
	}
	return false
}

// IsAuthenticated 是否已登录
func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0
}

// IsAdministrator 是否为管理员
func (a Actor) IsAdministrator() bool {
	return a.HasRole(constants.RoleAdministrator)
}

// CanModerate 是否可以审核评论
func (a Actor) CanModerate() bool {
	return a.HasRole(constants.RoleAdministrator) || a.HasRole(constants.RoleModerator)
}
