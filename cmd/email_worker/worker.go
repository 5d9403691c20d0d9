package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/pkg/mailer"
	mailtpl "github.com/oksasatya/pixcredit/pkg/mailer/templates"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeDrop
)

type worker struct {
	Sender      mailer.Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// process renders and sends one queued EmailJob. Jobs that can never succeed
// are dropped; delivery failures are requeued.
func (w *worker) process(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("dropping malformed email job")
		return outcomeDrop
	}
	if job.To == "" {
		w.Logger.Warn("dropping email job without recipient")
		return outcomeDrop
	}
	log := w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			log.WithError(err).Warn("dropping email job: render failed")
			return outcomeDrop
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		log.Warn("dropping email job without subject")
		return outcomeDrop
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Error("send failed, requeueing")
		return outcomeRequeue
	}
	log.Debug("email sent")
	return outcomeAck
}
