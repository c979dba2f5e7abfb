package notify

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

// Request is the task issued after a record lands in the store: notify
// the user's mailbox about the expense and the month total it brings.
type Request struct {
	UserID     int64          `json:"user_id"`
	Record     expense.Record `json:"record"`
	MonthTotal float64        `json:"month_total"`
}

type producer interface {
	ProduceMessage(message []byte) error
}

// Dispatcher publishes notification requests to the queue. Dispatch is
// fire-and-forget: record insertion never waits for, or fails on, the
// notification side effect.
type Dispatcher struct {
	producer producer
}

func NewDispatcher(producer producer) *Dispatcher {
	return &Dispatcher{producer: producer}
}

func (d *Dispatcher) Dispatch(_ context.Context, req Request) {
	if d == nil {
		return
	}
	payload, err := json.Marshal(req)
	if err != nil {
		logger.Error("cannot marshal notification request", zap.Error(err))
		return
	}
	if err = d.producer.ProduceMessage(payload); err != nil {
		logger.Error("cannot publish notification request",
			zap.Int64("userID", req.UserID), zap.Error(err))
		return
	}
	logger.Info("notification request published",
		zap.Int64("userID", req.UserID), zap.String("recordID", req.Record.ID))
}

type mailSender interface {
	SendExpenseNotification(ctx context.Context, req Request) error
}

type messageSender interface {
	SendMessage(text string, userID int64) error
}

const (
	sentMessage   = "Email notification sent!"
	failedMessage = "Failed to send email notification"
)

// Processor is the worker side: it delivers the mail and reports the
// settled outcome back to the user. A delivery failure is reported, not
// retried, and never touches the already-committed record.
type Processor struct {
	mailer mailSender
	sender messageSender
}

func NewProcessor(mailer mailSender, sender messageSender) *Processor {
	return &Processor{mailer: mailer, sender: sender}
}

func (p *Processor) Process(ctx context.Context, req Request) error {
	outcome := sentMessage
	if err := p.mailer.SendExpenseNotification(ctx, req); err != nil {
		logger.Error("mail delivery failed",
			zap.Int64("userID", req.UserID), zap.Error(err))
		outcome = failedMessage
	}

	err := p.sender.SendMessage(outcome, req.UserID)
	return errors.Wrap(err, "report notification outcome")
}
