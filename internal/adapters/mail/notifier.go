package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/domain/auth/notify"
	"github.com/dhillon/auth-api/internal/infra/config"
	"go.uber.org/zap"
)

// SMTPNotifier delivers verification mail over plain SMTP. Anything
// fancier (queues, providers, retries) belongs behind the same
// interface, outside this service.
type SMTPNotifier struct {
	addr    string
	from    string
	baseURL string
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		addr:    cfg.SMTPAddress,
		from:    cfg.SMTPFrom,
		baseURL: cfg.VerificationBaseURL,
	}
}

func (n *SMTPNotifier) SendVerificationEmail(_ context.Context, toAddress, token string) error {
	link := verificationLink(n.baseURL, token)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.from)
	fmt.Fprintf(&msg, "To: %s\r\n", toAddress)
	msg.WriteString("Subject: Verify your email address\r\n")
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "Follow this link to verify your email address:\r\n%s\r\n", link)

	if err := smtp.SendMail(n.addr, nil, n.from, []string{toAddress}, []byte(msg.String())); err != nil {
		return customErrors.WrapInternal(err, "SendVerificationEmail")
	}
	return nil
}

// LogNotifier is the development stand-in used when no SMTP endpoint is
// configured: the token lands in the log instead of a mailbox.
type LogNotifier struct {
	log     *zap.Logger
	baseURL string
}

func NewLogNotifier(log *zap.Logger, cfg *config.Config) *LogNotifier {
	return &LogNotifier{log: log, baseURL: cfg.VerificationBaseURL}
}

func (n *LogNotifier) SendVerificationEmail(_ context.Context, toAddress, token string) error {
	n.log.Info("verification email (log notifier)",
		zap.String("to", toAddress),
		zap.String("link", verificationLink(n.baseURL, token)),
	)
	return nil
}

func verificationLink(baseURL, token string) string {
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/auth/verify"
	}
	return baseURL + "?token=" + url.QueryEscape(token)
}

var (
	_ notify.Notifier = (*SMTPNotifier)(nil)
	_ notify.Notifier = (*LogNotifier)(nil)
)
