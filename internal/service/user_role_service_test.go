package service

import (
	"testing"

	"github.com/inkwell-next/internal/authz"
	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type roleTestEnv struct {
	db    *gorm.DB
	users *UserAuthService
	roles *UserRoleService
	audit *AuditService
}

func setupRoleTestEnv(t *testing.T) *roleTestEnv {
	t.Helper()
	db := setupServiceTestDB(t)
	authzService, err := authz.NewService(db)
	require.NoError(t, err)
	require.NoError(t, authzService.BootstrapBuiltinRoles())

	userRepo := repository.NewUserRepository(db)
	audit := NewAuditService(repository.NewAuditLogRepository(db))
	users := NewUserAuthService(&config.Config{UserJWT: config.JWTConfig{SecretKey: "test-secret"}}, userRepo)
	return &roleTestEnv{
		db:    db,
		users: users,
		roles: NewUserRoleService(authzService, userRepo, audit),
		audit: audit,
	}
}

func TestUserRoleServiceSetUserRoles(t *testing.T) {
	env := setupRoleTestEnv(t)
	target := createServiceTestUser(t, env.db, "mod@example.com", "Mo", "Derator")
	admin := Actor{UserID: 99, Roles: []string{constants.RoleAdministrator}, RequestID: "req-roles"}

	roles, err := env.roles.SetUserRoles(admin, target.ID, []string{"Moderator", "moderator"})
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleModerator}, roles)

	actor, err := env.roles.ActorFor(target.ID, "req-1")
	require.NoError(t, err)
	assert.True(t, actor.CanModerate())
	assert.False(t, actor.IsAdministrator())

	roles, err = env.roles.SetUserRoles(admin, target.ID, []string{constants.RoleAdministrator})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{constants.RoleAdministrator, constants.RoleModerator}, roles)

	logs, total, err := env.audit.List(repository.AuditLogListFilter{TargetType: constants.AuditTargetUser, TargetID: target.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 2)
	assert.Equal(t, constants.AuditActionUserRolesSet, logs[0].Action)
	assert.Equal(t, "req-roles", logs[0].RequestID)

	roles, err = env.roles.SetUserRoles(admin, target.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestUserRoleServiceGuards(t *testing.T) {
	env := setupRoleTestEnv(t)
	moderator := Actor{UserID: 5, Roles: []string{constants.RoleModerator}}
	admin := Actor{UserID: 6, Roles: []string{constants.RoleAdministrator}}

	_, err := env.roles.SetUserRoles(moderator, 1, []string{constants.RoleModerator})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.roles.GetUserRoles(moderator, 1)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.roles.SetUserRoles(admin, 12345, []string{constants.RoleModerator})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.roles.SetUserRoles(admin, 1, []string{"owner"})
	assert.ErrorIs(t, err, ErrRoleInvalid)
}

func TestNormalizeAssignableRoles(t *testing.T) {
	roles, err := NormalizeAssignableRoles([]string{" administrator", "role:moderator", "ADMINISTRATOR"})
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleAdministrator, constants.RoleModerator}, roles)

	_, err = NormalizeAssignableRoles([]string{"editor"})
	assert.ErrorIs(t, err, ErrRoleInvalid)
}

func TestBootstrapServiceEnsureAdministratorIsIdempotent(t *testing.T) {
	env := setupRoleTestEnv(t)
	bootstrap := NewBootstrapService(env.users, env.roles)

	user, err := bootstrap.EnsureAdministrator(config.BootstrapConfig{})
	require.NoError(t, err)
	assert.Nil(t, user)

	cfg := config.BootstrapConfig{AdminEmail: "Root@Example.com", AdminPassword: "changeme-123"}
	first, err := bootstrap.EnsureAdministrator(cfg)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "root@example.com", first.Email)
	assert.Equal(t, "Site", first.FirstName)

	second, err := bootstrap.EnsureAdministrator(cfg)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	actor, err := env.roles.ActorFor(first.ID, "")
	require.NoError(t, err)
	assert.True(t, actor.IsAdministrator())
	assert.True(t, actor.CanModerate())
}
