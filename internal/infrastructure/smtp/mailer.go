package smtp

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/medexpress/auth-api/internal/config"
)

// Mailer sends emails. Delivery failure is the caller's problem to log, not
// to surface: code issuance succeeds whether or not the mail goes out.
type Mailer interface {
	SendEmail(to, subject, text, html string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	secure   bool
}

// NewMailer builds an SMTP mailer from config. When no host or username is
// configured it returns a disabled mailer that skips delivery, so local
// setups work without a mail relay.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		return disabledMailer{}
	}
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		secure:   cfg.SMTPSecure,
	}
}

func (m *mailer) SendEmail(to, subject, text, html string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=sep\r\n\r\n"+
		"--sep\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n"+
		"--sep\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n--sep--\r\n",
		m.from, to, subject, text, html)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if m.secure {
		return m.sendTLS(addr, auth, to, []byte(msg))
	}
	// smtp.SendMail upgrades to STARTTLS when the server offers it.
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// sendTLS delivers over an implicit-TLS connection (typically port 465).
func (m *mailer) sendTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// disabledMailer drops mail on the floor. Used when SMTP credentials are
// absent; the verification code is still issued and stored.
type disabledMailer struct{}

func (disabledMailer) SendEmail(string, string, string, string) error { return nil }
