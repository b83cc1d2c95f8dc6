package mailer

//go:generate mockgen -source=mailer.go -destination=mocks/mock_mailer.go -package=mocks

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"
	log "github.com/sirupsen/logrus"

	"workshop_backend/internals/configs"
)

var ErrNoRecipient = errors.New("mailer: recipient is required")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks SMTP when credentials are present, otherwise a mailer that only logs.
func New(cfg configs.SMTPConfig) Mailer {
	if cfg.User == "" || cfg.Password == "" {
		log.Warn("EMAIL_USER / EMAIL_PASSWORD not set, emails will be logged instead of sent")
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// =========================
// SMTP
// =========================

// SMTPMailer drives the SMTP session itself. The caller's context bounds the
// dial only; once connected the session runs until it finishes or hits the
// mailer's own deadline, so an error is never returned for a message the
// server already accepted.
type SMTPMailer struct {
	addr    string
	host    string
	from    string
	sender  string
	auth    smtp.Auth
	tls     bool
	timeout time.Duration
}

func NewSMTPMailer(cfg configs.SMTPConfig) *SMTPMailer {
	sender := cfg.From
	if a, err := mail.ParseAddress(cfg.From); err == nil {
		sender = a.Address
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPMailer{
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:    cfg.Host,
		from:    cfg.From,
		sender:  sender,
		auth:    smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host),
		tls:     cfg.Port == 465, // implicit TLS, anything else negotiates STARTTLS
		timeout: timeout,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	} else {
		e.HTML = []byte(msg.Text)
	}
	raw, err := e.Bytes()
	if err != nil {
		return fmt.Errorf("build email: %w", err)
	}

	dialer := net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", m.addr, err)
	}
	if err := m.deliver(conn, msg.To, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	log.WithFields(log.Fields{"to": msg.To, "subject": msg.Subject}).Info("email sent")
	return nil
}

func (m *SMTPMailer) deliver(conn net.Conn, to string, raw []byte) error {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return err
	}
	if m.tls {
		conn = tls.Client(conn, &tls.Config{ServerName: m.host})
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if !m.tls {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
				return err
			}
		}
	}
	if ok, _ := c.Extension("AUTH"); ok && m.auth != nil {
		if err := c.Auth(m.auth); err != nil {
			return err
		}
	}
	if err := c.Mail(m.sender); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	// accepted; a failed QUIT does not undo delivery
	_ = c.Quit()
	return nil
}

// =========================
// Log only (development)
// =========================

type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	log.WithFields(log.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("email (not sent, SMTP not configured)")
	log.Debug(msg.Text)
	return nil
}
