package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"go-talent-pipeline/config"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

// StatusUpdateData holds the data for application status-change emails
type StatusUpdateData struct {
	CandidateName  string
	JobTitle       string
	PreviousStatus string
	NewStatus      string
	Note           string
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// statusUpdateTemplate is the HTML template for status-change emails
const statusUpdateTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application Status Update</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .status { font-size: 18px; font-weight: bold; color: #0066cc; }
        .note-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Application Status Update</h1>
        </div>
        <div class="content">
            <p>Dear {{.CandidateName}},</p>
            <p>Your application for <strong>{{.JobTitle}}</strong> has moved from
            <em>{{.PreviousStatus}}</em> to <span class="status">{{.NewStatus}}</span>.</p>
            {{if .Note}}
            <div class="note-box">{{.Note}}</div>
            {{end}}
        </div>
        <div class="footer">
            <p>This is an automated message from the recruitment team. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`

// SendStatusUpdateEmail notifies a candidate that their application moved to
// a new pipeline stage
func (s *EmailService) SendStatusUpdateEmail(toEmail string, data StatusUpdateData) error {
	tmpl, err := template.New("status_update").Parse(statusUpdateTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("Your application for %s: %s", data.JobTitle, data.NewStatus)

	// Construct MIME message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		toEmail,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
