package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/spec-kit/school-portal/internal/config"
)

const smtpTimeout = 30 * time.Second

// SMTPSender delivers mail through an SMTP relay. Messages are built by
// go-mail, which encodes headers and folds the body as quoted-printable.
type SMTPSender struct {
	host    string
	from    string
	options []gomail.Option
}

// NewSMTPSender validates the sender address and relay options.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	if err := gomail.NewMsg().From(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid MAIL_FROM: %w", err)
	}

	options := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTimeout(smtpTimeout),
	}
	switch cfg.TLSPolicy {
	case "", "opportunistic":
		options = append(options, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	case "mandatory":
		options = append(options, gomail.WithTLSPolicy(gomail.TLSMandatory))
	case "ssl":
		options = append(options, gomail.WithSSL())
	case "none":
		options = append(options, gomail.WithTLSPolicy(gomail.NoTLS))
	default:
		return nil, fmt.Errorf("invalid SMTP_TLS %q", cfg.TLSPolicy)
	}
	if cfg.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	if _, err := gomail.NewClient(cfg.SMTPHost, options...); err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{host: cfg.SMTPHost, from: cfg.From, options: options}, nil
}

// Send implements Sender. Each call opens its own connection.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail has no recipients")
	}

	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return err
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	client, err := gomail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
