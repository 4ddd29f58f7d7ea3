package mailer

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// LogMailer writes messages to the log instead of sending them. Meant for
// development: the reset link ends up in the server log.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info(ctx, "mail (log transport)", "to", to, "subject", subject, "body", body)
	return nil
}
