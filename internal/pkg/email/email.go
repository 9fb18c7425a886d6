package email

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for outbound account notifications.
// Callers treat delivery as best effort: a failed send never fails the
// operation that triggered it.
type EmailService interface {
	SendWelcomeEmail(toEmail, firstName, loginID string) error
	SendPasswordResetEmail(toEmail, firstName string) error
	SendLoginIDChangedEmail(toEmail, firstName, newLoginID string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// smtpEmailService implements EmailService over net/smtp
type smtpEmailService struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &smtpEmailService{
		config: config,
		logger: logger,
	}
}

// SendWelcomeEmail sends the registration confirmation.
func (s *smtpEmailService) SendWelcomeEmail(toEmail, firstName, loginID string) error {
	subject := "Welcome to the University Admission System"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nThank you for registering. Your login ID is %s.\r\n\r\nUniversity Admission System",
		firstName, loginID)
	return s.send(toEmail, subject, body)
}

// SendPasswordResetEmail confirms a completed password reset.
func (s *smtpEmailService) SendPasswordResetEmail(toEmail, firstName string) error {
	subject := "Password Reset Confirmation"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour password has been reset successfully.\r\n\r\nUniversity Admission System",
		firstName)
	return s.send(toEmail, subject, body)
}

// SendLoginIDChangedEmail confirms a login ID change.
func (s *smtpEmailService) SendLoginIDChangedEmail(toEmail, firstName, newLoginID string) error {
	subject := "Login ID Changed"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour login ID has been changed to %s.\r\n\r\nUniversity Admission System",
		firstName, newLoginID)
	return s.send(toEmail, subject, body)
}

func (s *smtpEmailService) send(toEmail, subject, body string) error {
	// Without SMTP credentials, log the mail instead of sending it so the
	// rest of the flow keeps working in development.
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	message := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, toEmail, subject, body)

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Str("toEmail", toEmail).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
