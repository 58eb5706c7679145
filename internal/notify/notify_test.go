package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
)

func sampleSummary() Summary {
	return Summary{
		Job:        "shipping-sync",
		RunID:      "6f1c",
		StartedAt:  time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 5, 1, 6, 0, 42, 0, time.UTC),
		Stats: []Stat{
			{Label: "Orders closed", Value: "3"},
			{Label: "Note", Value: "<script>alert(1)</script>"},
		},
	}
}

func TestRender(t *testing.T) {
	body, err := Render(sampleSummary())
	require.NoError(t, err)

	assert.Contains(t, body, "shipping-sync completed")
	assert.Contains(t, body, "2024-05-01 06:00:42")
	assert.Contains(t, body, "<td>3</td>")
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "Error:")
}

func TestRenderFailure(t *testing.T) {
	s := sampleSummary()
	s.Err = errors.New("list open orders: connection refused")

	body, err := Render(s)
	require.NoError(t, err)
	assert.Contains(t, body, "shipping-sync failed")
	assert.Contains(t, body, "connection refused")
	assert.Equal(t, "[PFSH sync] shipping-sync FAILED", s.Subject())
}

type fakeSender struct {
	cfg  config.SMTPConfig
	msgs []*mail.Msg
	err  error
}

func (f *fakeSender) dial(cfg config.SMTPConfig) (mailSender, error) {
	f.cfg = cfg
	return f, nil
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.msgs = append(f.msgs, messages...)
	return f.err
}

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "bot", Password: "pw",
		From: "bot@example.com", To: []string{"ops@example.com", "buyer@example.com"},
	}
}

func rawMessage(t *testing.T, msg *mail.Msg) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSend(t *testing.T) {
	cfg := smtpConfig()
	n := NewNotifier(cfg, zap.NewNop())
	sender := &fakeSender{}
	n.dial = sender.dial

	require.NoError(t, n.Send(context.Background(), sampleSummary()))

	assert.Equal(t, cfg, sender.cfg)
	require.Len(t, sender.msgs, 1)
	msg := sender.msgs[0]

	from, err := msg.GetSender(false)
	require.NoError(t, err)
	assert.Equal(t, "bot@example.com", from)
	to, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, cfg.To, to)

	raw := rawMessage(t, msg)
	assert.Contains(t, raw, "Subject: [PFSH sync] shipping-sync succeeded\r\n")
	assert.Contains(t, raw, "Date: ")
	assert.Contains(t, raw, "Message-ID: <")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "shipping-sync completed")
}

func TestSendEncodesNonASCIISubject(t *testing.T) {
	n := NewNotifier(smtpConfig(), zap.NewNop())
	sender := &fakeSender{}
	n.dial = sender.dial

	s := sampleSummary()
	s.Job = "expédition"
	require.NoError(t, n.Send(context.Background(), s))

	raw := rawMessage(t, sender.msgs[0])
	assert.Contains(t, raw, "Subject: =?UTF-8?")
	assert.NotContains(t, raw, "Subject: [PFSH sync] expédition")
}

func TestSendDisabled(t *testing.T) {
	n := NewNotifier(config.SMTPConfig{}, zap.NewNop())
	n.dial = func(config.SMTPConfig) (mailSender, error) {
		t.Fatal("must not send without SMTP configuration")
		return nil, nil
	}
	assert.NoError(t, n.Send(context.Background(), sampleSummary()))
}

func TestSendError(t *testing.T) {
	n := NewNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 25, From: "a@b.c", To: []string{"d@e.f"}}, zap.NewNop())
	sender := &fakeSender{err: errors.New("535 authentication failed")}
	n.dial = sender.dial

	err := n.Send(context.Background(), sampleSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestSendRejectsInvalidSender(t *testing.T) {
	cfg := smtpConfig()
	cfg.From = "not an address"
	n := NewNotifier(cfg, zap.NewNop())
	sender := &fakeSender{}
	n.dial = sender.dial

	err := n.Send(context.Background(), sampleSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender")
	assert.Empty(t, sender.msgs)
}

func TestNewMailClient(t *testing.T) {
	client, err := newMailClient(smtpConfig())
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = newMailClient(config.SMTPConfig{Host: "smtp.example.com", Port: 70000})
	assert.Error(t, err)
}
