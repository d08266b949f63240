package service

import (
	"strings"

	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/models"
)

// BootstrapService 初始数据引导
type BootstrapService struct {
	users *UserAuthService
	roles *UserRoleService
}

// NewBootstrapService 创建引导服务
func NewBootstrapService(users *UserAuthService, roles *UserRoleService) *BootstrapService {
	return &BootstrapService{users: users, roles: roles}
}

// EnsureAdministrator 按配置幂等创建管理员账号并授予 administrator 角色
// 邮箱为空时跳过，返回 nil 用户
func (s *BootstrapService) EnsureAdministrator(cfg config.BootstrapConfig) (*models.BlogUser, error) {
	if strings.TrimSpace(cfg.AdminEmail) == "" {
		return nil, nil
	}
	firstName := strings.TrimSpace(cfg.AdminFirstName)
	if firstName == "" {
		firstName = "Site"
	}
	lastName := strings.TrimSpace(cfg.AdminLastName)
	if lastName == "" {
		lastName = "Administrator"
	}

	user, created, err := s.users.EnsureUser(RegisterInput{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, err
	}
	if err := s.roles.GrantRole(user.ID, constants.RoleAdministrator); err != nil {
		return nil, err
	}
	logger.Infow("bootstrap_administrator_ready", "user_id", user.ID, "email", user.Email, "created", created)
	return user, nil
}
