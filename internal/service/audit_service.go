package service

import (
	"strings"
	"time"

	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	Actor      Actor
	Action     string
	TargetType string
	TargetID   uint
	FromState  string
	ToState    string
	Detail     map[string]interface{}
}

// AuditService 审计日志服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计日志服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// WithTx 返回绑定事务的审计服务
func (s *AuditService) WithTx(tx *gorm.DB) *AuditService {
	if s == nil || s.repo == nil || tx == nil {
		return s
	}
	return &AuditService{repo: s.repo.WithTx(tx)}
}

// Record 记录审计日志，缺少操作人或动作时忽略
func (s *AuditService) Record(input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Actor.UserID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}

	item := &models.AuditLog{
		ActorUserID: input.Actor.UserID,
		Action:      strings.TrimSpace(input.Action),
		TargetType:  strings.TrimSpace(input.TargetType),
		TargetID:    input.TargetID,
		FromState:   input.FromState,
		ToState:     input.ToState,
		RequestID:   strings.TrimSpace(input.Actor.RequestID),
		CreatedAt:   time.Now(),
	}
	if len(input.Detail) > 0 {
		item.Detail = datatypes.JSONMap(input.Detail)
	}
	return s.repo.Create(item)
}

// List 管理端查询审计日志
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
