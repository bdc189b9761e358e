package ports

import "context"

// Mailer is the email transport collaborator. No retry or queuing: a failure
// is terminal for that attempt and surfaces as a soft warning upstream.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NoopMailer is a safe default when no transport is configured.
var NoopMailer Mailer = noopMailer{}

type noopMailer struct{}

func (noopMailer) Send(_ context.Context, _, _, _ string) error { return nil }
