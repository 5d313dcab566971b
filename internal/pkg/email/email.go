package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// Service defines the interface for sending emails
type Service interface {
	SendVerification(to, name, verificationLink, expiresAt string) error
	SendRestoredNotice(to, name string) error
}

type serviceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewService creates a new email service instance
func NewService(cfg config.SMTPConfig) (Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &serviceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type verificationEmailData struct {
	Name             string
	VerificationLink string
	ExpiresAt        string
}

// SendVerification sends the email-verification link to a new account.
func (s *serviceImpl) SendVerification(to, name, verificationLink, expiresAt string) error {
	data := verificationEmailData{
		Name:             name,
		VerificationLink: verificationLink,
		ExpiresAt:        expiresAt,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "verification.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Verify your AuthSphere account", body.String())
}

type restoredEmailData struct {
	Name string
}

// SendRestoredNotice tells a rehired user their account is back and needs a
// password reset.
func (s *serviceImpl) SendRestoredNotice(to, name string) error {
	data := restoredEmailData{Name: name}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "restored.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Your AuthSphere account has been restored", body.String())
}

func (s *serviceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s\r\n", from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1s, 2s, 4s
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
