package emailservice

import (
	"fmt"
	"net/smtp"

	"github.com/devportal-io/portal-api/config/environment_variables"
)

// SendEmail delivers a plain-text message through the configured SMTP relay.
func SendEmail(to string, subject string, body string) error {
	envs := environment_variables.EnvironmentVariables
	if envs.SMTP_HOST == "" {
		return fmt.Errorf("smtp is not configured")
	}
	auth := smtp.PlainAuth(
		"", envs.SMTP_USERNAME, envs.SMTP_PASSWORD, envs.SMTP_HOST,
	)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		envs.SMTP_FROM, to, subject, body,
	)
	addr := fmt.Sprintf("%s:%s", envs.SMTP_HOST, envs.SMTP_PORT)
	return smtp.SendMail(addr, auth, envs.SMTP_FROM, []string{to}, []byte(msg))
}
