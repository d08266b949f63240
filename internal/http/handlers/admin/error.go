package admin

import (
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError = handlershared.MappedHandlerError

var commentWriteErrorRules = []mappedHandlerError{
	{Target: service.ErrCommentTransitionInvalid, Code: response.CodeBadRequest, Key: "error.comment_transition_invalid"},
}

var postWriteErrorRules = []mappedHandlerError{
	{Target: service.ErrTagInvalid, Code: response.CodeBadRequest, Key: "error.tag_invalid"},
	{Target: service.ErrTagDuplicate, Code: response.CodeBadRequest, Key: "error.tag_duplicate"},
	{Target: service.ErrReadyStatusInvalid, Code: response.CodeBadRequest, Key: "error.ready_status_invalid"},
	{Target: service.ErrImageTooLarge, Code: response.CodeBadRequest, Key: "error.image_too_large"},
	{Target: service.ErrImageTypeInvalid, Code: response.CodeBadRequest, Key: "error.image_type_invalid"},
	{Target: service.ErrImageDimensionInvalid, Code: response.CodeBadRequest, Key: "error.image_dimension_invalid"},
}

var userRoleErrorRules = []mappedHandlerError{
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, input interface{}, rules []mappedHandlerError, fallbackKey string) {
	handlershared.RespondWithMappedError(c, err, input, rules, response.CodeInternal, fallbackKey)
}
