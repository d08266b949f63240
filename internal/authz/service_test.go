package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inkwell-next/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("editor", "/admin/posts/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{"editor"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/admin/posts/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/admin/posts/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	if err := svc.SetUserRoles(2, []string{constants.RoleAdministrator}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{constants.RoleModerator}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:moderator" {
		t.Fatalf("roles want [role:moderator], got=%v", roles)
	}

	allow, err := svc.EnforceUser(2, "/admin/posts", "POST")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected administrator permission removed")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/comments/:id", want: "/admin/comments/:id"},
		{in: "/admin/comments/:id", want: "/admin/comments/:id"},
		{in: "admin/comments", want: "/admin/comments"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行保持幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles twice failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:administrator": true,
		"role:moderator":     true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetUserRoles(3, []string{constants.RoleModerator}); err != nil {
		t.Fatalf("set moderator role failed: %v", err)
	}
	cases := []struct {
		obj   string
		act   string
		allow bool
	}{
		{obj: "/api/v1/admin/comments", act: "GET", allow: true},
		{obj: "/api/v1/admin/comments/:id/moderation", act: "PUT", allow: true},
		{obj: "/api/v1/admin/comments/:id", act: "DELETE", allow: true},
		{obj: "/api/v1/admin/posts", act: "POST", allow: false},
		{obj: "/api/v1/admin/users/:id/roles", act: "PUT", allow: false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceUser(3, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if allow != tc.allow {
			t.Fatalf("moderator %s %s allow=%v want %v", tc.act, tc.obj, allow, tc.allow)
		}
	}

	if err := svc.SetUserRoles(4, []string{constants.RoleAdministrator}); err != nil {
		t.Fatalf("set administrator role failed: %v", err)
	}
	allow, err := svc.EnforceUser(4, "/api/v1/admin/users/:id/roles", "PUT")
	if err != nil || !allow {
		t.Fatalf("administrator should manage roles, allow=%v err=%v", allow, err)
	}
}

func TestHasRoleIncludesInheritedRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRoles(5, []string{constants.RoleAdministrator}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	isModerator, err := svc.HasRole(5, constants.RoleModerator)
	if err != nil || !isModerator {
		t.Fatalf("administrator should inherit moderator, has=%v err=%v", isModerator, err)
	}
	isAdmin, err := svc.HasRole(6, constants.RoleAdministrator)
	if err != nil || isAdmin {
		t.Fatalf("user without roles should not be administrator, has=%v err=%v", isAdmin, err)
	}
	if got := RoleName("role:moderator"); got != "moderator" {
		t.Fatalf("unexpected role name: %s", got)
	}
}
