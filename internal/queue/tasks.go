package queue

import (
	"encoding/json"

	"github.com/inkwell-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskContactEmail 联系表单邮件任务
	TaskContactEmail = constants.TaskContactEmail
)

// ContactEmailPayload 联系表单邮件任务载荷
type ContactEmailPayload struct {
	RequestID string `json:"request_id"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	HTMLBody  string `json:"html_body"`
}

// NewContactEmailTask 创建联系表单邮件任务
func NewContactEmailTask(payload ContactEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactEmail, body), nil
}

// ParseContactEmailPayload 解析联系表单邮件任务载荷
func ParseContactEmailPayload(task *asynq.Task) (ContactEmailPayload, error) {
	var payload ContactEmailPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
