package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/provider"
	"github.com/inkwell-next/internal/queue"
	"github.com/inkwell-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskContactEmail, c.handleContactEmail)
}

func (c *Consumer) handleContactEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_contact_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseContactEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_contact_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.To) == "" || strings.TrimSpace(payload.HTMLBody) == "" {
		logger.Debugw("worker_contact_email_skip_invalid_payload", "request_id", payload.RequestID)
		return nil
	}
	if c.ContactService == nil {
		logger.Warnw("worker_contact_email_skip_contact_service_nil", "request_id", payload.RequestID)
		return nil
	}
	if err := c.ContactService.Deliver(ctx, payload); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured),
			errors.Is(err, service.ErrEmailRecipientRejected):
			logger.Warnw("worker_contact_email_dropped", "request_id", payload.RequestID, "error", err)
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		default:
			return err
		}
	}
	return nil
}

// PurgeExpiredComments 按保留天数物理删除软删除评论，未开启时返回 0
func (c *Consumer) PurgeExpiredComments(ctx context.Context, now time.Time) (int, error) {
	if c == nil || c.Container == nil || c.CommentService == nil || c.Config == nil {
		return 0, nil
	}
	days := c.Config.Comment.PurgeAfterDays
	if days <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -days)
	purged, err := c.CommentService.PurgeSoftDeleted(ctx, cutoff)
	if err != nil {
		return purged, err
	}
	if purged > 0 {
		logger.Infow("worker_comment_purge_done", "purged", purged, "cutoff", cutoff.Format(time.RFC3339))
	}
	return purged, nil
}
