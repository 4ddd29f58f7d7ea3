package mailer

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	logging.Nop
	mu   sync.Mutex
	msgs []string
	args [][]any
}

func (l *recordingLogger) Info(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
	l.args = append(l.args, args)
}

func TestResetBody_EmbedsLink(t *testing.T) {
	body := ResetBody("http://localhost:3000/reset-password/", "abc123")

	assert.Contains(t, body, "http://localhost:3000/reset-password/abc123\n")
	assert.Contains(t, body, "within one hour")
	assert.Contains(t, body, "please ignore this email")
}

func TestLogMailer_Send(t *testing.T) {
	log := &recordingLogger{}
	m := NewLogMailer(log)

	require.NoError(t, m.Send(context.Background(), "a@x.com", ResetSubject, "hello"))
	require.Len(t, log.msgs, 1)
	assert.Equal(t, []any{"to", "a@x.com", "subject", "Password Reset", "body", "hello"}, log.args[0])
}

func TestNew_SelectsBackend(t *testing.T) {
	m, err := New(context.Background(), &config.Config{Mailer: config.MailerLog}, logging.Nop{})
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = New(context.Background(), &config.Config{Mailer: config.MailerSMTP, SMTPHost: "localhost", SMTPPort: 2525}, logging.Nop{})
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = New(context.Background(), &config.Config{Mailer: "pigeon"}, logging.Nop{})
	assert.ErrorContains(t, err, `unknown mailer "pigeon"`)
}
