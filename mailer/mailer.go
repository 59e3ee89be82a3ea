// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// SendOtp delivers the verification code for a pending registration.
func (m *Mailer) SendOtp(to, name, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your StayFinder verification code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour verification code is %s. It expires in a few minutes.\n\nIf you did not request this, ignore this email.\n", name, code))
	return m.dialer.DialAndSend(msg)
}
