package email

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"skillijob-backend/config"
)

// Mailer is implemented by EmailService and by test doubles.
type Mailer interface {
	IsConfigured() bool
	SendContactEmail(data ContactEmailData) error
	SendCVNotification(data CVEmailData) error
	SendPasswordReset(data PasswordResetEmailData) error
}

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// CVEmailData is the team notification for a new CV.
type CVEmailData struct {
	SubmissionID string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	City         string
	Position     string
	Summary      string
	FileName     string
}

// PasswordResetEmailData is sent to the account owner.
type PasswordResetEmailData struct {
	To        string
	Name      string
	ResetLink string
	ExpiresIn string
}

// NewEmailService creates a new email service with Brevo SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		toEmail:   cfg.ContactEmailTo,
		send:      smtp.SendMail,
	}
}

const layoutStart = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #1f2937; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9fafb; }
        .label { font-weight: bold; color: #4b5563; }
        .box { background: white; padding: 15px; border-left: 4px solid #2563eb; margin-top: 10px; white-space: pre-wrap; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none; }
        .footer { text-align: center; padding: 20px; color: #9ca3af; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">`

const layoutEnd = `
        <div class="footer">
            <p>Skillijob, le recrutement simplifié.</p>
        </div>
    </div>
</body>
</html>`

var templates = template.Must(template.New("contact").Parse(layoutStart + `
        <div class="header"><h1>Nouveau message de contact</h1></div>
        <div class="content">
            <p><span class="label">De :</span> {{.SenderName}} ({{.SenderEmail}})</p>
            <p><span class="label">Sujet :</span> {{.Subject}}</p>
            <div class="box">{{.Message}}</div>
        </div>` + layoutEnd))

func init() {
	template.Must(templates.New("cv").Parse(layoutStart + `
        <div class="header"><h1>Nouveau CV déposé</h1></div>
        <div class="content">
            <p><span class="label">Candidat :</span> {{.FirstName}} {{.LastName}}</p>
            <p><span class="label">Poste recherché :</span> {{.Position}}</p>
            <p><span class="label">Email :</span> {{.Email}}</p>
            <p><span class="label">Téléphone :</span> {{.Phone}}</p>
            {{if .City}}<p><span class="label">Ville :</span> {{.City}}</p>{{end}}
            <p><span class="label">Fichier :</span> {{.FileName}}</p>
            {{if .Summary}}<div class="box">{{.Summary}}</div>{{end}}
            <p>Référence : {{.SubmissionID}}</p>
        </div>` + layoutEnd))

	template.Must(templates.New("reset").Parse(layoutStart + `
        <div class="header"><h1>Réinitialisation du mot de passe</h1></div>
        <div class="content">
            <p>Bonjour {{.Name}},</p>
            <p>Vous avez demandé la réinitialisation de votre mot de passe Skillijob.</p>
            <p><a class="button" href="{{.ResetLink}}">Choisir un nouveau mot de passe</a></p>
            <p>Ce lien expire dans {{.ExpiresIn}}. Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.</p>
        </div>` + layoutEnd))
}

// SendContactEmail sends a contact form email to the configured recipient
func (s *EmailService) SendContactEmail(data ContactEmailData) error {
	return s.sendTemplate("contact", data, s.toEmail, data.SenderEmail, "Contact : "+data.Subject)
}

// SendCVNotification tells the recruitment team that a CV was submitted.
func (s *EmailService) SendCVNotification(data CVEmailData) error {
	subject := fmt.Sprintf("Nouveau CV : %s %s (%s)", data.FirstName, data.LastName, data.Position)
	return s.sendTemplate("cv", data, s.toEmail, data.Email, subject)
}

// SendPasswordReset sends the reset link to the account owner.
func (s *EmailService) SendPasswordReset(data PasswordResetEmailData) error {
	return s.sendTemplate("reset", data, data.To, "", "Réinitialisation de votre mot de passe Skillijob")
}

func (s *EmailService) sendTemplate(name string, data any, to, replyTo, subject string) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := buildMessage(s.fromEmail, to, replyTo, subject, body.String())

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// headerSafe drops CR and LF so user input cannot inject headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(v)
}

func buildMessage(from, to, replyTo, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerSafe(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerSafe(to))
	if replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe(replyTo))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerSafe(subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
