package service

import (
	"errors"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// MailQueue decouples sign-up from SMTP. Deliveries are enqueued without
// blocking and drained by a small worker pool; a failed delivery is logged
// and dropped, never surfaced to the request that queued it.
type MailQueue struct {
	jobs chan *VerificationMail
	send func(*VerificationMail) error
}

// NewMailQueue initializes a new mail queue that limits the
// max amount of deliveries that can be pending at once
func NewMailQueue() *MailQueue {
	return &MailQueue{
		jobs: make(chan *VerificationMail, viper.GetInt("mail.queue_size")),
		send: SendVerificationMail,
	}
}

func (q *MailQueue) StartWorkerPool() {
	for range viper.GetInt("mail.workers") {
		go q.worker()
	}
}

func (q *MailQueue) worker() {
	for m := range q.jobs {
		if err := q.send(m); err != nil {
			zap.L().Error("Failed to send verification email",
				zap.String("to", m.To),
				zap.Error(err))
		}
	}
}

// Enqueue queues a delivery without blocking. A full queue is an error the
// caller may log, but sign-up itself never fails on it.
func (q *MailQueue) Enqueue(m *VerificationMail) error {
	select {
	case q.jobs <- m:
		return nil
	default:
		return errors.New("mail queue full")
	}
}
