// Package service contains background collaborators of the auth service:
// verification mail delivery and periodic token pruning.
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// VerificationMail is one queued delivery of an email-verification link.
type VerificationMail struct {
	To       string
	Username string
	Token    string
}

// SendVerificationMail delivers the verification link over SMTP. Callers go
// through the MailQueue; this blocks for the whole SMTP exchange.
func SendVerificationMail(m *VerificationMail) error {
	from := viper.GetString("mail.sender")
	if from == "" || viper.GetString("mail.host") == "" {
		return errors.New("mail delivery is not configured")
	}

	if m.To == from {
		return errors.New("invalid recipient address")
	}

	var s string
	if viper.GetBool("host.ssl.enabled") {
		s = "s"
	}

	verifLink := fmt.Sprintf("http%v://%v/auth/v1/verify_email?token=%v",
		s, viper.GetString("host.domain"), m.Token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", "Verify your email address")
	msg.SetBody("text/html", fmt.Sprintf(
		"Hi %v,<br><br>Click <a href='%v'>here</a> to verify your email address.<br><br>This link will expire in %v minutes",
		m.Username, verifLink, viper.GetInt("verification.ttl_minutes")))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(msg)
}
