package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/pixcredit/pkg/mailer/templates"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Publisher enqueues an EmailJob for the email worker.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier sends the account emails. Verification codes always go through
// Direct and the caller waits for the result; other mail goes through Queue
// when one is configured.
type Notifier struct {
	AppName string
	Direct  Sender
	Queue   Publisher
	Logger  *logrus.Logger
}

var ErrNoSender = errors.New("no email sender configured")

func NewNotifier(appName string, direct Sender, queue Publisher, logger *logrus.Logger) *Notifier {
	return &Notifier{AppName: appName, Direct: direct, Queue: queue, Logger: logger}
}

func (n *Notifier) SendVerificationCode(ctx context.Context, to, name, code string, expiresAt time.Time) error {
	data := mailtpl.NewEmailData(n.AppName, name, to, mailtpl.WithCode(code), mailtpl.WithExpiresAt(expiresAt))
	return n.sendNow(ctx, to, mailtpl.VerificationCode, data)
}

func (n *Notifier) SendWelcome(ctx context.Context, to, name string) error {
	data := mailtpl.NewEmailData(n.AppName, name, to)
	return n.dispatch(ctx, to, mailtpl.Welcome, data)
}

func (n *Notifier) SendPasswordReset(ctx context.Context, to, name, link string, expiresAt time.Time) error {
	data := mailtpl.NewEmailData(n.AppName, name, to, mailtpl.WithResetURL(link), mailtpl.WithExpiresAt(expiresAt))
	return n.dispatch(ctx, to, mailtpl.PasswordReset, data)
}

func (n *Notifier) dispatch(ctx context.Context, to, template string, data mailtpl.EmailData) error {
	if n.Queue != nil {
		job := EmailJob{To: to, Template: template, Data: mailtpl.ToMap(data)}
		if err := n.Queue.PublishJSON(ctx, job); err != nil {
			return fmt.Errorf("enqueue %s email: %w", template, err)
		}
		return nil
	}
	return n.sendNow(ctx, to, template, data)
}

func (n *Notifier) sendNow(ctx context.Context, to, template string, data mailtpl.EmailData) error {
	if n.Direct == nil {
		return ErrNoSender
	}
	subject, text, html, err := mailtpl.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}
	if err := n.Direct.Send(ctx, to, subject, text, html); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	return nil
}

// LogSender writes emails to the logger instead of delivering them. Used when
// MAIL_SEND_ENABLED=false.
type LogSender struct {
	Logger *logrus.Logger
}

func (s LogSender) Send(_ context.Context, to, subject, text, _ string) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info(text)
	}
	return nil
}
