// Package notify generates and delivers one-time verification codes.
package notify

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/blogverse/backend/internal/config"
)

// Sender delivers a verification code to a recipient over one channel.
type Sender interface {
	SendCode(gmail, phone, code string) error
}

// GenerateCode returns a 6-digit numeric code in [100000, 999999].
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("otp generation failed: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// Notifier routes codes to SMTP email, falling back to Twilio SMS when a
// phone number is available and mail is not configured.
type Notifier struct {
	mail Sender
	sms  Sender
}

func New(cfg *config.Config) *Notifier {
	n := &Notifier{}
	if cfg.Mail.Configured() {
		n.mail = NewSMTPSender(cfg.Mail)
	}
	if cfg.Twilio.Configured() {
		n.sms = NewTwilioSender(cfg.Twilio)
	}
	return n
}

// SendCode delivers the code and never surfaces transport failures to the
// caller: a failed send is logged and swallowed, the OTP flow continues.
func (n *Notifier) SendCode(gmail, phone, code string) {
	if n.mail != nil {
		if err := n.mail.SendCode(gmail, phone, code); err != nil {
			logrus.WithError(err).WithField("gmail", gmail).Error("failed to send OTP email")
		} else {
			return
		}
	}

	if n.sms != nil && phone != "" {
		if err := n.sms.SendCode(gmail, phone, code); err != nil {
			logrus.WithError(err).WithField("phone", phone).Error("failed to send OTP sms")
		}
		return
	}

	if n.mail == nil {
		logrus.WithField("gmail", gmail).Warn("no OTP delivery channel configured")
	}
}
