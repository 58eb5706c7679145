// Package notify emails a summary of each sync run.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
)

const sendTimeout = 30 * time.Second

// Summary describes one pipeline run
type Summary struct {
	Job        string
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
	Stats      []Stat
}

// Stat is one labelled figure in the summary table
type Stat struct {
	Label string
	Value string
}

// Succeeded reports whether the run finished without error
func (s Summary) Succeeded() bool {
	return s.Err == nil
}

// Subject is the email subject line for the run
func (s Summary) Subject() string {
	status := "succeeded"
	if !s.Succeeded() {
		status = "FAILED"
	}
	return fmt.Sprintf("[PFSH sync] %s %s", s.Job, status)
}

// mailSender delivers composed messages. *mail.Client satisfies it.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type dialFunc func(cfg config.SMTPConfig) (mailSender, error)

// Notifier sends run summaries by email
type Notifier struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
	dial   dialFunc
}

// NewNotifier creates a notifier that requires STARTTLS on the submission port
func NewNotifier(cfg config.SMTPConfig, logger *zap.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		logger: logger,
		dial:   newMailClient,
	}
}

func newMailClient(cfg config.SMTPConfig) (mailSender, error) {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithPort(cfg.Port),
		mail.WithTimeout(sendTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return mail.NewClient(cfg.Host, opts...)
}

// Send renders the summary and mails it to every configured recipient. It is
// a no-op when SMTP is not configured.
func (n *Notifier) Send(ctx context.Context, s Summary) error {
	if !n.cfg.Enabled() {
		n.logger.Debug("Notification skipped: SMTP not configured")
		return nil
	}

	msg, err := n.compose(s)
	if err != nil {
		return err
	}
	client, err := n.dial(n.cfg)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.logger.Info("Notification sent", zap.String("job", s.Job), zap.Strings("to", n.cfg.To))
	return nil
}

func (n *Notifier) compose(s Summary) (*mail.Msg, error) {
	body, err := Render(s)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", n.cfg.From, err)
	}
	if err := msg.To(n.cfg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(s.Subject())
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

// Render produces the HTML body of the summary email
func Render(s Summary) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}
	return buf.String(), nil
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"ts": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
<h2>{{.Job}} {{if .Succeeded}}completed{{else}}failed{{end}}</h2>
<table cellpadding="4" style="border-collapse: collapse;">
<tr><td><b>Run</b></td><td>{{.RunID}}</td></tr>
<tr><td><b>Started</b></td><td>{{ts .StartedAt}}</td></tr>
<tr><td><b>Finished</b></td><td>{{ts .FinishedAt}}</td></tr>
{{- range .Stats}}
<tr><td><b>{{.Label}}</b></td><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- if not .Succeeded}}
<p style="color: #b00020;"><b>Error:</b> {{.Err}}</p>
{{- end}}
</body>
</html>
`))
