// Package mail sends transactional email over SMTP, or only logs it when no
// SMTP server is configured.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/playperu/scrumcluedo/internal/config"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message. The returned preview URL is empty unless the
// backend offers one.
type Sender interface {
	Send(ctx context.Context, m Message) (previewURL string, err error)
}

// New returns an SMTP sender when cfg.Host is set and a LogSender
// otherwise.
func New(cfg config.SMTP, logger *slog.Logger) (Sender, error) {
	if cfg.Host == "" {
		logger.Info("smtp not configured, emails will only be logged")
		return LogSender{log: logger}, nil
	}
	return NewSMTPSender(cfg)
}

type SMTPSender struct {
	client *gomail.Client
	from   string
}

func NewSMTPSender(cfg config.SMTP) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) (string, error) {
	msg, err := buildMsg(s.from, m)
	if err != nil {
		return "", err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("sending email: %w", err)
	}
	return "", nil
}

func buildMsg(from string, m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(logger *slog.Logger) LogSender {
	return LogSender{log: logger}
}

func (s LogSender) Send(ctx context.Context, m Message) (string, error) {
	s.log.InfoContext(ctx, "email not sent, smtp disabled",
		"to", m.To,
		"subject", m.Subject,
		"body", m.Text,
	)
	return "", nil
}
