package emailsettings

import (
	"crypto/tls"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single message with the company's SMTP settings.
type Mailer interface {
	Send(settings *Settings, to, subject, htmlBody string) error
}

type smtpMailer struct{}

func NewSMTPMailer() Mailer {
	return &smtpMailer{}
}

func (m *smtpMailer) Send(settings *Settings, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	from := settings.FromEmail
	if settings.FromName != "" {
		from = msg.FormatAddress(settings.FromEmail, settings.FromName)
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.SMTPPassword)
	d.TLSConfig = &tls.Config{ServerName: settings.SMTPHost}

	return d.DialAndSend(msg)
}
