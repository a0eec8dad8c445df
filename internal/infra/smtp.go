package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/config"

	"github.com/jordan-wright/email"
)

var ErrSMTPNaoConfigurado = errors.New("mailer: SMTP host not configured")

// Anexo is an in-memory attachment.
type Anexo struct {
	Nome        string
	ContentType string
	Conteudo    []byte
}

// Mailer wraps SMTP configuration for sending demand summaries.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enviar sends a plain-text message with optional attachments.
func (m *Mailer) Enviar(to, subject, body string, anexos ...Anexo) error {
	if m.host == "" {
		return ErrSMTPNaoConfigurado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, a := range anexos {
		if _, err := e.Attach(bytes.NewReader(a.Conteudo), a.Nome, a.ContentType); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Nome, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
