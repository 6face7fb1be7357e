package smtp

import (
	"fmt"
	"strings"
)

// Mailer формирует и отправляет текстовые письма.
type Mailer struct {
	dialer Dialer
}

// NewMailer создает Mailer.
func NewMailer(d Dialer) *Mailer {
	return &Mailer{dialer: d}
}

// Send отправляет одно письмо to с темой subject.
func (m *Mailer) Send(to, subject, body string) error {
	const op = "smtp.Send"

	client, err := m.dialer.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	from := m.dialer.Sender()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%s: rcpt to: %w", op, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := w.Write(compose(from, to, subject, body)); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: quit: %w", op, err)
	}
	return nil
}

func compose(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
