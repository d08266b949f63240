package service

import (
	"errors"
	"sort"
	"strings"
)

// 通用错误
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrQueueUnavailable    = errors.New("queue unavailable")
)

// 领域资源错误（均可匹配 ErrNotFound）
var (
	ErrPostNotFound    = notFoundError("post not found")
	ErrCommentNotFound = notFoundError("comment not found")
	ErrBlogNotFound    = notFoundError("blog not found")
	ErrUserNotFound    = notFoundError("user not found")
)

// 评论与文章错误
var (
	ErrCommentTransitionInvalid = errors.New("comment transition invalid")
	ErrReadyStatusInvalid       = errors.New("ready status invalid")
	ErrTagInvalid               = errors.New("tag invalid")
	ErrTagDuplicate             = errors.New("tag duplicate")
)

// 账号错误
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrRoleInvalid        = errors.New("role invalid")
)

// 邮件错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 验证码错误
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 图片错误
var (
	ErrImageTooLarge         = errors.New("image too large")
	ErrImageTypeInvalid      = errors.New("image type invalid")
	ErrImageDimensionInvalid = errors.New("image dimension invalid")
)

type notFoundError string

func (e notFoundError) Error() string {
	return string(e)
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FieldError 单个字段的校验失败
type FieldError struct {
	Field string        `json:"field"`
	Key   string        `json:"key"`
	Args  []interface{} `json:"-"`
}

// ValidationError 字段级校验错误集合
// 多个字段的失败会同时返回，调用方可一次性回显
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError 创建空的校验错误
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// Add 追加字段错误
func (e *ValidationError) Add(field, key string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Key: key, Args: args})
}

// HasErrors 是否存在字段错误
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Has 是否包含指定字段的指定错误
func (e *ValidationError) Has(field, key string) bool {
	if e == nil {
		return false
	}
	for _, item := range e.Fields {
		if item.Field == field && item.Key == key {
			return true
		}
	}
	return false
}

// OrNil 无错误时返回 nil，避免返回带类型的空指针
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, item := range e.Fields {
		parts = append(parts, item.Field+":"+item.Key)
	}
	sort.Strings(parts)
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Is 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AsValidationError 提取字段校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
