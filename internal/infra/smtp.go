package infra

import (
	"fmt"
	"net/smtp"

	"liquidacion/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// NuevoMensaje builds the email without sending it.
func (m *Mailer) NuevoMensaje(to, subject, body, pdfPath string) (*email.Email, error) {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return nil, fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}
	return e, nil
}

// EnviarLiquidacion sends the liquidación PDF of a carga.
func (m *Mailer) EnviarLiquidacion(to, subject, body, pdfPath string) error {
	e, err := m.NuevoMensaje(to, subject, body, pdfPath)
	if err != nil {
		return err
	}
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
