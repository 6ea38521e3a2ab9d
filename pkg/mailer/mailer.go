package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"appliance-store/pkg/utils"

	"go.uber.org/zap"
)

type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Sender delivers a message; delivery is not confirmed beyond the transport accepting it
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewSMTPSender(config utils.EmailConfig, log *zap.Logger) Sender {
	return &smtpSender{
		config: config,
		log:    log.With(zap.String("mailer", "smtp")),
	}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.config.From
	}

	// RFC 822 headers, blank line, then body
	lines := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", strings.Join(msg.To, ", ")),
		fmt.Sprintf("Subject: %s", msg.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		msg.Body,
	}
	raw := []byte(strings.Join(lines, "\r\n"))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, envelopeAddress(from), msg.To, raw); err != nil {
		s.log.Error("Failed to send email",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("send mail to %v: %w", msg.To, err)
	}

	return nil
}

// envelopeAddress strips a display name: "Store <a@b.c>" -> "a@b.c"
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

type logSender struct {
	log *zap.Logger
}

// NewLogSender writes messages to the log instead of mailing them. Used when
// no SMTP host is configured.
func NewLogSender(log *zap.Logger) Sender {
	return &logSender{log: log.With(zap.String("mailer", "log"))}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email (not sent, SMTP disabled)",
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
