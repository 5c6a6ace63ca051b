package email

import (
	"bytes"
	"fmt"
	"go-workspace-portal/config"
	"html/template"
	"net/smtp"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
}

// ReviewEmailData holds the data for onboarding review notifications
type ReviewEmailData struct {
	WorkspaceName string
	OwnerEmail    string
	SubmittedAt   string
}

// NewEmailService creates a new email service with Brevo SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPUsername, // Brevo uses login email as from address
		toEmail:   cfg.ReviewEmailTo,
	}
}

// reviewEmailTemplate is the HTML template for review notification emails
const reviewEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Onboarding Submitted for Review</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Onboarding Submitted for Review</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Workspace:</div>
                <div class="value">{{.WorkspaceName}}</div>
            </div>
            <div class="field">
                <div class="label">Owner:</div>
                <div class="value">{{.OwnerEmail}}</div>
            </div>
            <div class="field">
                <div class="label">Submitted at:</div>
                <div class="value">{{.SubmittedAt}}</div>
            </div>
        </div>
        <div class="footer">
            <p>Review this submission from the admin console.</p>
        </div>
    </div>
</body>
</html>`

// SendReviewNotification notifies the review inbox that a workspace
// submitted its onboarding questionnaire.
func (s *EmailService) SendReviewNotification(data ReviewEmailData) error {
	tmpl, err := template.New("review").Parse(reviewEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("Onboarding review requested: %s", data.WorkspaceName)

	// Construct MIME message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		data.OwnerEmail,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	err = smtp.SendMail(addr, auth, s.fromEmail, []string{s.toEmail}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
