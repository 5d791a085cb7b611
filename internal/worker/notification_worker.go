package worker

import (
	"context"
	"log"
	"time"

	"github.com/hireos/hireos/internal/config"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/service"
	"github.com/hireos/hireos/internal/template"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/tidwall/gjson"
)

// NotificationWorker drains the deferred-notification queue. Assessment
// emails are queued at candidate creation with a ProcessAfter three hours
// out (or immediate for express-review jobs); this loop delivers whatever
// has come due.
type NotificationWorker struct {
	store    usecase.NotificationStore
	mailer   service.MailerInterface
	interval time.Duration
	batch    int
}

func NewNotificationWorker(store usecase.NotificationStore, mailer service.MailerInterface) *NotificationWorker {
	return &NotificationWorker{
		store:    store,
		mailer:   mailer,
		interval: time.Minute,
		batch:    50,
	}
}

// Run blocks until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick processes one batch of due rows. At-most-once delivery: a send
// failure is recorded on the row but not retried forever by this loop.
func (w *NotificationWorker) Tick(ctx context.Context) {
	due, err := w.store.ClaimDue(w.batch)
	if err != nil {
		log.Printf("notification worker: claim failed: %v", err)
		return
	}

	for i := range due {
		q := &due[i]
		if err := w.process(ctx, q); err != nil {
			log.Printf("notification worker: %s failed: %v", q.ID, err)
			if err := w.store.MarkFailed(q, err); err != nil {
				log.Printf("notification worker: mark failed errored: %v", err)
			}
			continue
		}
		if err := w.store.MarkProcessed(q); err != nil {
			log.Printf("notification worker: mark processed errored: %v", err)
		}
	}
}

func (w *NotificationWorker) process(ctx context.Context, q *model.QueuedNotification) error {
	switch q.Kind {
	case model.QueuedKindAssessment:
		return w.sendAssessment(ctx, q)
	}
	log.Printf("notification worker: skipping unknown kind %q", q.Kind)
	return nil
}

func (w *NotificationWorker) sendAssessment(ctx context.Context, q *model.QueuedNotification) error {
	payload := gjson.Parse(q.Payload)
	d, _ := template.DefaultFor(model.TemplateKindAssessment)
	rendered := template.Render(d.Subject, d.Body, template.Fields{
		CandidateName:  payload.Get("candidate_name").String(),
		JobTitle:       payload.Get("job_title").String(),
		SenderName:     payload.Get("sender_name").String(),
		CompanyName:    config.LoadCompanyConfig().Name,
		AssessmentLink: payload.Get("assessment_link").String(),
	})
	return w.mailer.Send(ctx, payload.Get("email").String(), rendered.Subject, rendered.Body)
}
