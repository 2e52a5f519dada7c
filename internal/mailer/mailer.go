package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends OTP mails through the configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, username, password, from string) *Mailer {
	if from == "" {
		from = username
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendOTP delivers the code to the recipient. The wording matches the
// user-facing contract: codes are presented as valid for 10 minutes.
func (m *Mailer) SendOTP(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your OTP Code")
	msg.SetBody("text/plain", fmt.Sprintf("Your One-Time Password (OTP) is: %s\n\nIt will expire in 10 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp email failed: %w", err)
	}
	return nil
}
