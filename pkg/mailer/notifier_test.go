package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

func TestNotifier_VerificationCodeIsSentDirectly(t *testing.T) {
	sender := &mockSender{}
	queue := &mockPublisher{}
	n := NewNotifier("PixCredit", sender, queue, nil)

	sender.On("Send", mock.Anything, "alice@example.com", "Verify Your Email",
		mock.MatchedBy(func(text string) bool { return len(text) > 0 }),
		mock.AnythingOfType("string"),
	).Return(nil).Once()

	err := n.SendVerificationCode(context.Background(), "alice@example.com", "Alice", "654321", time.Now().Add(time.Hour))
	require.NoError(t, err)

	sender.AssertExpectations(t)
	queue.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
}

func TestNotifier_VerificationCodeFailureIsReturned(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("mailgun down"))
	n := NewNotifier("PixCredit", sender, nil, nil)

	err := n.SendVerificationCode(context.Background(), "a@example.com", "A", "111111", time.Now())
	assert.ErrorContains(t, err, "mailgun down")
}

func TestNotifier_NoSender(t *testing.T) {
	n := NewNotifier("PixCredit", nil, nil, nil)
	err := n.SendVerificationCode(context.Background(), "a@example.com", "A", "111111", time.Now())
	assert.ErrorIs(t, err, ErrNoSender)
}

func TestNotifier_WelcomeIsQueued(t *testing.T) {
	queue := &mockPublisher{}
	queue.On("PublishJSON", mock.Anything, mock.MatchedBy(func(job EmailJob) bool {
		return job.To == "bob@example.com" && job.Template == "welcome" && job.Data["Name"] == "Bob"
	})).Return(nil).Once()
	n := NewNotifier("PixCredit", nil, queue, nil)

	require.NoError(t, n.SendWelcome(context.Background(), "bob@example.com", "Bob"))
	queue.AssertExpectations(t)
}

func TestNotifier_ResetFallsBackToDirect(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, "c@example.com", "Reset your password",
		mock.MatchedBy(func(text string) bool { return len(text) > 0 }),
		mock.AnythingOfType("string"),
	).Return(nil).Once()
	n := NewNotifier("PixCredit", sender, nil, nil)

	require.NoError(t, n.SendPasswordReset(context.Background(), "c@example.com", "C", "https://x/reset", time.Now().Add(time.Minute)))
	sender.AssertExpectations(t)
}

func TestLogSender_NeverFails(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), "a", "b", "c", "d"))
}
