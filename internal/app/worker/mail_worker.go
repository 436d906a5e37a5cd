package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gamestore/internal/domain/model"
	"gamestore/internal/platform/queue"
)

const (
	defaultPollTimeout = 5 * time.Second
	defaultMaxAttempts = 3
	retryPause         = time.Second
)

// Message is a rendered mail ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// JobQueue is the part of queue.MailQueue the worker consumes.
type JobQueue interface {
	Enqueue(ctx context.Context, job model.MailJob) error
	Dequeue(ctx context.Context, timeout time.Duration) (*model.MailJob, error)
	Name() string
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail delivered",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

type MailWorker struct {
	queue       JobQueue
	mailer      Mailer
	log         *slog.Logger
	from        string
	appURL      string
	pollTimeout time.Duration
	maxAttempts int
}

type Option func(*MailWorker)

// WithPollTimeout sets how long one dequeue blocks before the loop rechecks
// its context.
func WithPollTimeout(d time.Duration) Option {
	return func(w *MailWorker) { w.pollTimeout = d }
}

func WithMaxAttempts(n int) Option {
	return func(w *MailWorker) { w.maxAttempts = n }
}

func NewMailWorker(q JobQueue, mailer Mailer, from, appURL string, log *slog.Logger, opts ...Option) *MailWorker {
	w := &MailWorker{
		queue:       q,
		mailer:      mailer,
		log:         log,
		from:        from,
		appURL:      strings.TrimRight(appURL, "/"),
		pollTimeout: defaultPollTimeout,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start consumes the queue until ctx is canceled.
func (w *MailWorker) Start(ctx context.Context) {
	w.log.Info("mail worker started", "queue", w.queue.Name())
	for {
		if ctx.Err() != nil {
			w.log.Info("mail worker stopping")
			return
		}

		job, err := w.queue.Dequeue(ctx, w.pollTimeout)
		switch {
		case err == nil:
			w.process(ctx, job)
		case errors.Is(err, queue.ErrQueueEmpty):
		case errors.Is(err, queue.ErrMalformedJob):
			w.log.Warn("dropping malformed mail job", "queue", w.queue.Name(), "error", err)
		case ctx.Err() != nil:
		default:
			w.log.Error("dequeue mail job", "queue", w.queue.Name(), "error", err)
			sleep(ctx, retryPause)
		}
	}
}

// process delivers one job and re-queues it on failure until it runs out of
// attempts.
func (w *MailWorker) process(ctx context.Context, job *model.MailJob) {
	msg, err := w.Render(*job)
	if err != nil {
		w.log.Warn("dropping mail job", "job_id", job.ID, "kind", job.Kind, "error", err)
		return
	}

	sendErr := w.mailer.Send(ctx, msg)
	if sendErr == nil {
		w.log.Debug("mail job done", "job_id", job.ID, "kind", job.Kind)
		return
	}

	job.Attempts++
	if job.Attempts >= w.maxAttempts {
		w.log.Error("mail job failed permanently", "job_id", job.ID, "kind", job.Kind, "attempts", job.Attempts, "error", sendErr)
		return
	}
	w.log.Warn("mail delivery failed, requeueing", "job_id", job.ID, "attempts", job.Attempts, "error", sendErr)
	// Requeue outlives a worker shutdown.
	if err := w.queue.Enqueue(context.WithoutCancel(ctx), *job); err != nil {
		w.log.Error("requeue mail job", "job_id", job.ID, "error", err)
	}
}

// Render builds the message for job. Unknown kinds are an error.
func (w *MailWorker) Render(job model.MailJob) (Message, error) {
	msg := Message{From: w.from, To: job.To}
	switch job.Kind {
	case model.MailKindWelcome:
		msg.Subject = "Welcome to Game Store"
		msg.Body = fmt.Sprintf("Hi %s,\n\nyour account is ready. Happy gaming!\n", job.Username)
		if job.Token != "" {
			msg.Body += fmt.Sprintf("\nConfirm your email address here:\n%s\n", w.link("/verify-email/", job.Token))
		}
	case model.MailKindVerifyEmail:
		msg.Subject = "Verify your email"
		msg.Body = fmt.Sprintf("Hi %s,\n\nconfirm your email address here:\n%s\n", job.Username, w.link("/verify-email/", job.Token))
	case model.MailKindPasswordReset:
		msg.Subject = "Reset your password"
		msg.Body = fmt.Sprintf("Hi %s,\n\nreset your password here:\n%s\n\nIf you did not ask for this, ignore this mail.\n", job.Username, w.link("/reset-password/", job.Token))
	default:
		return Message{}, fmt.Errorf("unknown mail kind %q", job.Kind)
	}
	return msg, nil
}

func (w *MailWorker) link(path, token string) string {
	return w.appURL + path + token
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
