package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailQueueDrains(t *testing.T) {
	sent := make(chan *VerificationMail, 4)

	q := &MailQueue{
		jobs: make(chan *VerificationMail, 4),
		send: func(m *VerificationMail) error {
			sent <- m
			return nil
		},
	}
	go q.worker()

	require.NoError(t, q.Enqueue(&VerificationMail{To: "a@example.com", Token: "tok"}))

	select {
	case m := <-sent:
		assert.Equal(t, "a@example.com", m.To)
		assert.Equal(t, "tok", m.Token)
	case <-time.After(time.Second):
		t.Fatal("worker never delivered the queued mail")
	}
}

func TestMailQueueFullDoesNotBlock(t *testing.T) {
	// No worker attached, one slot.
	q := &MailQueue{
		jobs: make(chan *VerificationMail, 1),
		send: func(*VerificationMail) error { return nil },
	}

	require.NoError(t, q.Enqueue(&VerificationMail{To: "a@example.com"}))

	err := q.Enqueue(&VerificationMail{To: "b@example.com"})
	assert.Error(t, err)
}

func TestMailQueueWorkerSurvivesSendFailure(t *testing.T) {
	calls := make(chan string, 2)

	q := &MailQueue{
		jobs: make(chan *VerificationMail, 2),
		send: func(m *VerificationMail) error {
			calls <- m.To
			if m.To == "bad@example.com" {
				return errors.New("smtp down")
			}
			return nil
		},
	}
	go q.worker()

	require.NoError(t, q.Enqueue(&VerificationMail{To: "bad@example.com"}))
	require.NoError(t, q.Enqueue(&VerificationMail{To: "good@example.com"}))

	for _, want := range []string{"bad@example.com", "good@example.com"} {
		select {
		case got := <-calls:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("worker stopped before delivering %s", want)
		}
	}
}
