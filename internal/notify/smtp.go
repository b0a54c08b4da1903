package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/blogverse/backend/internal/config"
)

// SMTPSender sends the code by email over plain SMTP with STARTTLS,
// matching the MAIL_* environment contract.
type SMTPSender struct {
	cfg config.MailConfig
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendCode(gmail, _ string, code string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	msg := buildMessage(s.cfg.Username, gmail, code)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Server)
	if err := smtp.SendMail(addr, auth, s.cfg.Username, []string{gmail}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", gmail, err)
	}
	return nil
}

func buildMessage(from, to, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your OTP Verification Code\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your OTP for registration is: %s\r\n", code)
	return []byte(b.String())
}
