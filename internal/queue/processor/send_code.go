package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pantrykeep/backend/internal/queue/task"
	"github.com/pantrykeep/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type sendCodeEmailProcessor struct {
	workers *worker.Workers
}

func NewSendCodeEmailProcessor(workers *worker.Workers) *sendCodeEmailProcessor {
	return &sendCodeEmailProcessor{
		workers: workers,
	}
}

func (p *sendCodeEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendCodeEmail
	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		return fmt.Errorf("process send code task json unmarshal failed: %w", err)
	}

	if err := p.workers.CodeEmailSender.SendVerificationCodeEmail(ctx, data.Email, data.VerificationCode); err != nil {
		return fmt.Errorf("send verification code email failed: %w", err)
	}

	return nil
}
