package model

import "time"

const (
	MailKindWelcome       = "welcome"
	MailKindVerifyEmail   = "verify_email"
	MailKindPasswordReset = "password_reset"
)

// MailJob is the payload pushed on the mail queue.
type MailJob struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	To         string    `json:"to"`
	Username   string    `json:"username"`
	Token      string    `json:"token"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
