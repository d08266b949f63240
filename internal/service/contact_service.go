package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/queue"
)

const maxContactPhoneLength = 30

// ContactInput 联系表单输入
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Phone   string
	Message string
}

// ContactResult 联系表单提交结果
type ContactResult struct {
	Queued bool   `json:"queued"`
	TaskID string `json:"task_id,omitempty"`
}

// ContactService 联系表单服务：格式化为一封 HTML 邮件投递给站点收件人
type ContactService struct {
	cfg          config.ContactConfig
	fallbackTo   string
	emailService *EmailService
	queueClient  *queue.Client
}

// NewContactService 创建联系表单服务
func NewContactService(cfg config.ContactConfig, emailCfg config.EmailConfig, emailService *EmailService, queueClient *queue.Client) *ContactService {
	return &ContactService{
		cfg:          cfg,
		fallbackTo:   strings.TrimSpace(emailCfg.From),
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// Submit 校验并投递联系邮件；队列启用时异步，否则同步发送
func (s *ContactService) Submit(ctx context.Context, actor Actor, input ContactInput) (*ContactResult, error) {
	normalized, fieldErrs := validateContactInput(input)
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}
	recipient := s.recipient()
	if recipient == "" {
		return nil, ErrEmailServiceNotConfigured
	}

	payload := queue.ContactEmailPayload{
		RequestID: actor.RequestID,
		To:        recipient,
		Subject:   s.buildSubject(normalized.Subject),
		HTMLBody:  BuildContactHTML(normalized.Name, normalized.Email, BuildContactMessage(normalized.Message, normalized.Phone)),
	}

	if s.queueClient.Enabled() {
		taskID, err := s.queueClient.EnqueueContactEmail(payload)
		if err != nil {
			logger.Warnw("contact_email_enqueue_failed", "request_id", actor.RequestID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
		}
		logger.Infow("contact_email_enqueued", "request_id", actor.RequestID, "task_id", taskID)
		return &ContactResult{Queued: true, TaskID: taskID}, nil
	}

	if err := s.Deliver(ctx, payload); err != nil {
		return nil, err
	}
	return &ContactResult{Queued: false}, nil
}

// Deliver 发送已格式化的联系邮件（队列消费者与同步路径共用）
func (s *ContactService) Deliver(ctx context.Context, payload queue.ContactEmailPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.emailService.SendHTMLEmail(payload.To, payload.Subject, payload.HTMLBody); err != nil {
		logger.Warnw("contact_email_send_failed", "request_id", payload.RequestID, "to", payload.To, "error", err)
		return err
	}
	logger.Infow("contact_email_sent", "request_id", payload.RequestID, "to", payload.To)
	return nil
}

func (s *ContactService) recipient() string {
	if to := strings.TrimSpace(s.cfg.Recipient); to != "" {
		return to
	}
	return s.fallbackTo
}

func (s *ContactService) buildSubject(subject string) string {
	prefix := strings.TrimSpace(s.cfg.SubjectPrefix)
	if prefix == "" {
		return subject
	}
	return prefix + " " + subject
}

// BuildContactMessage 有电话时在正文后追加电话信息
func BuildContactMessage(message, phone string) string {
	escaped := html.EscapeString(message)
	if phone = strings.TrimSpace(phone); phone != "" {
		escaped += " <hr/> Phone: " + html.EscapeString(phone)
	}
	return escaped
}

// BuildContactHTML 生成联系邮件 HTML 正文，messageHTML 需已转义
func BuildContactHTML(name, email, messageHTML string) string {
	return fmt.Sprintf(
		"<b>%s</b> has sent you an email and can be reached at: <b>%s</b><br/><br/>%s",
		html.EscapeString(name),
		html.EscapeString(email),
		messageHTML,
	)
}

func validateContactInput(input ContactInput) (ContactInput, *ValidationError) {
	fieldErrs := NewValidationError()
	normalized := ContactInput{
		Name:    strings.TrimSpace(input.Name),
		Subject: strings.TrimSpace(input.Subject),
		Phone:   strings.TrimSpace(input.Phone),
		Message: strings.TrimSpace(input.Message),
	}
	validateLength(fieldErrs, "name", normalized.Name, 2, 100)
	email, err := normalizeEmail(input.Email)
	if err != nil {
		fieldErrs.Add("email", "email")
	}
	normalized.Email = email
	validateLength(fieldErrs, "subject", normalized.Subject, 1, 200)
	validateLength(fieldErrs, "message", normalized.Message, 1, 5000)
	if utf8.RuneCountInString(normalized.Phone) > maxContactPhoneLength {
		fieldErrs.Add("phone", "length", 0, maxContactPhoneLength)
	}
	return normalized, fieldErrs
}
