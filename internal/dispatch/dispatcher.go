package dispatch

import (
	"context"
	"fmt"

	"github.com/pantrykeep/backend/internal/domain"
	"github.com/pantrykeep/backend/internal/queue/task"
	"github.com/pantrykeep/backend/pkg/sms"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Dispatcher routes an issued verification code to its transport: email
// destinations go through the asynq queue, phone destinations straight to the
// SMS provider. The asynq client is injected explicitly, there is no global.
type Dispatcher struct {
	queue  *asynq.Client
	sms    *sms.Client
	logger *zap.Logger
}

func NewDispatcher(queue *asynq.Client, smsClient *sms.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue:  queue,
		sms:    smsClient,
		logger: logger,
	}
}

func (d *Dispatcher) Send(ctx context.Context, destination string, code string) error {
	_, kind, err := domain.NormalizeContact(destination)
	if err != nil {
		return err
	}

	switch kind {
	case domain.ContactEmail:
		t, err := task.NewSendCodeEmailTask(destination, code)
		if err != nil {
			return fmt.Errorf("build send code task failed: %w", err)
		}
		if _, err := d.queue.EnqueueContext(ctx, t); err != nil {
			return fmt.Errorf("enqueue send code task failed: %w", err)
		}
	case domain.ContactPhone:
		text := "PantryKeep verification code: " + code
		if err := d.sms.Send(ctx, destination, text); err != nil {
			return fmt.Errorf("send sms failed: %w", err)
		}
	}

	d.logger.Debug("verification code dispatched", zap.String("kind", string(kind)))

	return nil
}
