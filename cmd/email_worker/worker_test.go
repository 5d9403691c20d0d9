package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pixcredit/pkg/helpers"
	"github.com/oksasatya/pixcredit/pkg/mailer"
)

type fakeSender struct {
	err     error
	subject string
	to      string
}

func (f *fakeSender) Send(_ context.Context, to, subject, _, _ string) error {
	f.to, f.subject = to, subject
	return f.err
}

func jobBody(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorker_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("raw message is sent and acked", func(t *testing.T) {
		s := &fakeSender{}
		w := &worker{Sender: s, Logger: helpers.NewNopLogger(), SendTimeout: time.Second}
		got := w.process(ctx, jobBody(t, mailer.EmailJob{To: "a@b.co", Subject: "Hi", Text: "hello"}))
		assert.Equal(t, outcomeAck, got)
		assert.Equal(t, "a@b.co", s.to)
		assert.Equal(t, "Hi", s.subject)
	})

	t.Run("send failure requeues", func(t *testing.T) {
		w := &worker{Sender: &fakeSender{err: errors.New("mailgun down")}, Logger: helpers.NewNopLogger(), SendTimeout: time.Second}
		got := w.process(ctx, jobBody(t, mailer.EmailJob{To: "a@b.co", Subject: "Hi", Text: "hello"}))
		assert.Equal(t, outcomeRequeue, got)
	})

	t.Run("malformed jobs are dropped", func(t *testing.T) {
		w := &worker{Sender: &fakeSender{}, Logger: helpers.NewNopLogger(), SendTimeout: time.Second}
		assert.Equal(t, outcomeDrop, w.process(ctx, []byte("{")))
		assert.Equal(t, outcomeDrop, w.process(ctx, jobBody(t, mailer.EmailJob{Subject: "no recipient"})))
		assert.Equal(t, outcomeDrop, w.process(ctx, jobBody(t, mailer.EmailJob{To: "a@b.co", Template: "does_not_exist"})))
	})
}
