package public

import (
	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedHandlerError

var registerErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Key: "error.email_exists"},
}

var loginErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
}

var changePasswordErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_old_invalid"},
}

var commentCreateErrorRules = []mappedHandlerError{
	{Target: service.ErrForbidden, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
}

var contactErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailRecipientRejected, Code: response.CodeBadRequest, Key: "error.email_recipient_not_found"},
	{Target: service.ErrEmailServiceDisabled, Code: response.CodeInternal, Key: "error.email_service_not_configured"},
	{Target: service.ErrEmailServiceNotConfigured, Code: response.CodeInternal, Key: "error.email_service_not_configured"},
	{Target: service.ErrQueueUnavailable, Code: response.CodeInternal, Key: "error.queue_unavailable"},
}

func respondWithMappedError(c *gin.Context, err error, input interface{}, rules []mappedHandlerError, fallbackKey string) {
	handlershared.RespondWithMappedError(c, err, input, rules, response.CodeInternal, fallbackKey)
}
