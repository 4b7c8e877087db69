// Package service holds the outbound collaborators of the API: mail
// dispatch and scheduled maintenance.
package service

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mail is the message content the core constructs; how it gets
// delivered is the dispatcher's business.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(m *Mail) error
}

// SMTPMailer sends through the SMTP relay from the mail.* config keys.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer() *SMTPMailer {
	from := viper.GetString("mail.sender")

	return &SMTPMailer{
		from: from,
		dialer: gomail.NewDialer(
			viper.GetString("mail.host"),
			viper.GetInt("mail.port"),
			from,
			viper.GetString("mail.password"),
		),
	}
}

func (s *SMTPMailer) Send(m *Mail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)

	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}

	return s.dialer.DialAndSend(msg)
}

// VerificationURL builds the link embedded in the verification mail.
func VerificationURL(token string) string {
	return fmt.Sprintf("%s/api/users/verify-email?token=%s",
		viper.GetString("host.base_url"), url.QueryEscape(token))
}

// VerificationMail constructs the message for a freshly minted
// verification token.
func VerificationMail(to, verifyURL string, expiry time.Duration) *Mail {
	return &Mail{
		To:      to,
		Subject: "Please Verify Your Email",
		Text:    fmt.Sprintf("Click this link to verify your email: %s", verifyURL),
		HTML: fmt.Sprintf(`<h1>Email Verification</h1>
<p>Please click the link below to verify your email address:</p>
<a href="%s">Verify Email</a>
<p>This link will expire in %s.</p>`, verifyURL, expiry),
	}
}
