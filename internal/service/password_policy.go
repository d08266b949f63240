package service

import (
	"strings"
	"unicode"

	"github.com/inkwell-next/internal/config"
)

// bcryptMaxPasswordBytes bcrypt 仅接受前 72 字节，超出部分直接拒绝
const bcryptMaxPasswordBytes = 72

// minEmailFragmentLength 邮箱用户名短于该长度时不做包含检查
const minEmailFragmentLength = 3

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// passwordTraits 密码字符构成
type passwordTraits struct {
	runes      int
	bytes      int
	hasUpper   bool
	hasLower   bool
	hasNumber  bool
	hasSpecial bool
}

func inspectPassword(password string) passwordTraits {
	traits := passwordTraits{runes: len([]rune(password)), bytes: len(password)}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			traits.hasUpper = true
		case unicode.IsLower(r):
			traits.hasLower = true
		case unicode.IsDigit(r):
			traits.hasNumber = true
		default:
			traits.hasSpecial = true
		}
	}
	return traits
}

// passwordCharsetRules 字符类别规则，按顺序返回第一个未满足项
var passwordCharsetRules = []struct {
	required  func(config.PasswordPolicyConfig) bool
	satisfied func(passwordTraits) bool
	key       string
}{
	{
		required:  func(p config.PasswordPolicyConfig) bool { return p.RequireUpper },
		satisfied: func(t passwordTraits) bool { return t.hasUpper },
		key:       "error.password_require_upper",
	},
	{
		required:  func(p config.PasswordPolicyConfig) bool { return p.RequireLower },
		satisfied: func(t passwordTraits) bool { return t.hasLower },
		key:       "error.password_require_lower",
	},
	{
		required:  func(p config.PasswordPolicyConfig) bool { return p.RequireNumber },
		satisfied: func(t passwordTraits) bool { return t.hasNumber },
		key:       "error.password_require_number",
	},
	{
		required:  func(p config.PasswordPolicyConfig) bool { return p.RequireSpecial },
		satisfied: func(t passwordTraits) bool { return t.hasSpecial },
		key:       "error.password_require_special",
	},
}

// validatePassword 校验注册、引导管理员与修改密码时的新密码
// email 为账号邮箱，开启 forbid_email 时密码不得包含其用户名部分
func validatePassword(policy config.PasswordPolicyConfig, password, email string) error {
	traits := inspectPassword(password)
	if traits.bytes > bcryptMaxPasswordBytes {
		return passwordPolicyError{key: "error.password_max_length", args: []interface{}{bcryptMaxPasswordBytes}}
	}
	if policy.MinLength > 0 && traits.runes < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}
	for _, rule := range passwordCharsetRules {
		if rule.required(policy) && !rule.satisfied(traits) {
			return passwordPolicyError{key: rule.key}
		}
	}
	if policy.ForbidEmail && passwordContainsEmail(password, email) {
		return passwordPolicyError{key: "error.password_contains_email"}
	}
	return nil
}

func passwordContainsEmail(password, email string) bool {
	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	if len([]rune(local)) < minEmailFragmentLength {
		return false
	}
	return strings.Contains(strings.ToLower(password), local)
}
