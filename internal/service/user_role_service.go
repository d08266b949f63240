package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-next/internal/authz"
	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/repository"
)

var assignableRoles = map[string]struct{}{
	constants.RoleAdministrator: {},
	constants.RoleModerator:     {},
}

// UserRoleService 用户角色服务（Casbin 分组策略）
type UserRoleService struct {
	authz    *authz.Service
	userRepo repository.UserRepository
	audit    *AuditService
}

// NewUserRoleService 创建用户角色服务
func NewUserRoleService(authzService *authz.Service, userRepo repository.UserRepository, audit *AuditService) *UserRoleService {
	return &UserRoleService{authz: authzService, userRepo: userRepo, audit: audit}
}

// RolesOf 查询用户生效角色（不含前缀，含继承）
func (s *UserRoleService) RolesOf(userID uint) ([]string, error) {
	if s == nil || s.authz == nil || userID == 0 {
		return []string{}, nil
	}
	roles, err := s.authz.GetUserRoles(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, authz.RoleName(role))
	}
	return names, nil
}

// ActorFor 根据用户 ID 构建操作者身份
func (s *UserRoleService) ActorFor(userID uint, requestID string) (Actor, error) {
	roles, err := s.RolesOf(userID)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: userID, Roles: roles, RequestID: requestID}, nil
}

// GetUserRoles 管理端查询用户角色
func (s *UserRoleService) GetUserRoles(actor Actor, userID uint) ([]string, error) {
	if !actor.IsAdministrator() {
		return nil, ErrForbidden
	}
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	return s.RolesOf(userID)
}

// SetUserRoles 管理端覆盖设置用户角色
func (s *UserRoleService) SetUserRoles(actor Actor, userID uint, roles []string) ([]string, error) {
	if !actor.IsAdministrator() {
		return nil, ErrForbidden
	}
	normalized, err := NormalizeAssignableRoles(roles)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	previous, err := s.RolesOf(userID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.SetUserRoles(userID, normalized); err != nil {
		return nil, err
	}
	if err := s.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionUserRolesSet,
		TargetType: constants.AuditTargetUser,
		TargetID:   userID,
		Detail: map[string]interface{}{
			"from_roles": previous,
			"to_roles":   normalized,
		},
	}); err != nil {
		logger.Warnw("user_roles_audit_failed", "user_id", userID, "error", err)
	}
	logger.Infow("user_roles_set", "user_id", userID, "roles", normalized, "actor_id", actor.UserID)
	return s.RolesOf(userID)
}

// GrantRole 为用户追加角色（保留原有直接角色）
func (s *UserRoleService) GrantRole(userID uint, role string) error {
	if _, ok := assignableRoles[role]; !ok {
		return ErrRoleInvalid
	}
	has, err := s.authz.HasRole(userID, role)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	current, err := s.RolesOf(userID)
	if err != nil {
		return err
	}
	return s.authz.SetUserRoles(userID, append(current, role))
}

func (s *UserRoleService) ensureUser(userID uint) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

// NormalizeAssignableRoles 去重并校验可分配角色
func NormalizeAssignableRoles(roles []string) ([]string, error) {
	seen := make(map[string]struct{}, len(roles))
	result := make([]string, 0, len(roles))
	for _, raw := range roles {
		role := authz.RoleName(strings.ToLower(strings.TrimSpace(raw)))
		if _, ok := assignableRoles[role]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrRoleInvalid, raw)
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		result = append(result, role)
	}
	sort.Strings(result)
	return result, nil
}
