package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// UseTLS dials with implicit TLS (port 465). Otherwise STARTTLS is
	// negotiated when the server offers it.
	UseTLS bool
}

func (c SMTPConfig) complete() bool {
	return c.Host != "" && c.Port > 0 && c.Username != "" && c.Password != ""
}

func (c SMTPConfig) from() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	cfg   SMTPConfig
	ids   IDGenerator
	clock func() time.Time
	send  func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig, ids IDGenerator) *SMTPSender {
	s := &SMTPSender{cfg: cfg, ids: ids, clock: time.Now}
	s.send = smtp.SendMail
	if cfg.UseTLS {
		s.send = s.sendTLS
	}
	return s
}

// Name implements usecase.EmailSender.
func (s *SMTPSender) Name() string { return "smtp" }

// Deliver implements usecase.EmailSender. It fails without contacting the
// server when the configuration is incomplete.
func (s *SMTPSender) Deliver(ctx context.Context, msg *domain.EmailMessage) (*domain.DeliveryReceipt, error) {
	if !s.cfg.complete() {
		return nil, fmt.Errorf("smtp: %w", domain.ErrSenderDisabled)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := s.ids.Generate()
	now := s.clock().UTC()
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.send(addr, auth, s.cfg.from(), recipients(msg), compose(s.cfg.from(), msg, id, now)); err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}
	return &domain.DeliveryReceipt{ID: id, Location: addr, SentAt: now}, nil
}

func (s *SMTPSender) sendTLS(addr string, auth smtp.Auth, from string, to []string, body []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %w", err)
	}
	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %w", err)
	}
	return client.Quit()
}
