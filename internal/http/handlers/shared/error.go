package shared

import (
	"errors"

	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/i18n"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// RespondValidationError 返回字段级校验错误，同时回显提交内容便于表单保留输入。
func RespondValidationError(c *gin.Context, fieldErrs *service.ValidationError, input interface{}) {
	locale := i18n.ResolveLocale(c)
	fields := make(map[string]string, len(fieldErrs.Fields))
	for _, item := range fieldErrs.Fields {
		if _, exists := fields[item.Field]; exists {
			continue
		}
		fields[item.Field] = i18n.Sprintf(locale, "validation."+item.Key, item.Args...)
	}
	response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, "error.validation_failed"), gin.H{
		"fields": fields,
		"input":  input,
	})
}

// RespondWeakPassword 按密码策略错误返回具体提示。
func RespondWeakPassword(c *gin.Context, err error) {
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	RespondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

// MappedHandlerError 定义业务错误到接口错误响应的映射关系。
type MappedHandlerError struct {
	Target error
	Code   int
	Key    string
}

// CommonErrorRules 通用业务错误映射，放在各接口专属规则之后匹配。
var CommonErrorRules = []MappedHandlerError{
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrConcurrencyConflict, Code: response.CodeConflict, Key: "error.concurrency_conflict"},
	{Target: service.ErrPostNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"},
	{Target: service.ErrCommentNotFound, Code: response.CodeNotFound, Key: "error.comment_not_found"},
	{Target: service.ErrBlogNotFound, Code: response.CodeNotFound, Key: "error.blog_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

// RespondWithMappedError 按规则映射业务错误；校验错误统一回显字段，未命中规则时使用兜底响应。
func RespondWithMappedError(c *gin.Context, err error, input interface{}, rules []MappedHandlerError, fallbackCode int, fallbackKey string) {
	if fieldErrs, ok := service.AsValidationError(err); ok {
		RespondValidationError(c, fieldErrs, input)
		return
	}
	if errors.Is(err, service.ErrWeakPassword) {
		RespondWeakPassword(c, err)
		return
	}
	for _, group := range [][]MappedHandlerError{rules, CommonErrorRules} {
		for _, rule := range group {
			if errors.Is(err, rule.Target) {
				RespondError(c, rule.Code, rule.Key, nil)
				return
			}
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}
