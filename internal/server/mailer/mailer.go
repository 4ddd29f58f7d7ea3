// Package mailer delivers outgoing e-mail. Send blocks until the message has
// been handed to the transport, so callers learn about delivery failures.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds the mailer selected by cfg.Mailer.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Mailer, error) {
	switch cfg.Mailer {
	case config.MailerLog:
		return NewLogMailer(log), nil
	case config.MailerSMTP:
		m, err := NewSMTPMailer(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MailerSES:
		m, err := NewSESMailer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mailer %q", cfg.Mailer)
	}
}

const ResetSubject = "Password Reset"

// ResetBody renders the plain-text reset message. The link is resetURLBase
// followed by the token.
func ResetBody(resetURLBase, token string) string {
	var b strings.Builder
	b.WriteString("You are receiving this because you (or someone else) have requested a password reset for your account.\n\n")
	b.WriteString("Please click on the following link, or paste it into your browser to complete the process within one hour of receiving it:\n\n")
	b.WriteString(resetURLBase)
	b.WriteString(token)
	b.WriteString("\n\n")
	b.WriteString("If you did not request this, please ignore this email and your password will remain unchanged.\n")
	return b.String()
}
