package shared

import (
	"strconv"
	"strings"

	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ActorContextKey 中间件写入的操作者身份
const ActorContextKey = "actor"

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// ActorFromContext 读取当前请求的操作者身份，匿名请求返回空身份。
func ActorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{RequestID: RequestID(c)}
	if c == nil {
		return actor
	}
	if value, ok := c.Get(ActorContextKey); ok {
		if stored, ok := value.(service.Actor); ok {
			stored.RequestID = actor.RequestID
			return stored
		}
	}
	if value, ok := c.Get("user_id"); ok {
		if userID, ok := value.(uint); ok {
			actor.UserID = userID
		}
	}
	return actor
}

// RequestID 读取请求 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// ParseIDParam 解析路径中的正整数 ID，失败时写出 400 响应。
func ParseIDParam(c *gin.Context, name, invalidKey string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return uint(id), true
}
