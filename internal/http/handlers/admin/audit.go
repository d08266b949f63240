package admin

import (
	"strings"

	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/http/response"
	"github.com/inkwell-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs 审计日志列表
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	actorUserID, err := parseUintQuery(c, "actor_user_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	targetID, err := parseUintQuery(c, "target_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	logs, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		ActorUserID: actorUserID,
		Action:      strings.TrimSpace(c.Query("action")),
		TargetType:  strings.TrimSpace(c.Query("target_type")),
		TargetID:    targetID,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondWithMappedError(c, err, nil, nil, "error.audit_fetch_failed")
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}
