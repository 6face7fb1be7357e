// Package smtp отправляет письма через SMTP-сервер с STARTTLS.
package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/jam/internal/config"
	"github.com/magabrotheeeer/jam/internal/lib/sl"
)

// Client - часть *smtp.Client, которой пользуется Mailer.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer устанавливает авторизованное соединение с почтовым сервером.
type Dialer interface {
	Connect() (Client, error)
	Sender() string
}

// Transport подключается к серверу из конфигурации.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

// NewTransport создает Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect открывает соединение, включает STARTTLS и проходит авторизацию,
// если в конфигурации задан пользователь.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"

	conn, err := net.Dial("tcp", net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort))
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.closeQuietly(conn)
		return nil, fmt.Errorf("%s: new client: %w", op, err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: t.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			t.closeQuietly(client)
			return nil, fmt.Errorf("%s: starttls: %w", op, err)
		}
	} else if t.cfg.SMTPUser != "" {
		t.closeQuietly(client)
		return nil, fmt.Errorf("%s: server does not support STARTTLS", op)
	}

	if t.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			t.closeQuietly(client)
			return nil, fmt.Errorf("%s: auth: %w", op, err)
		}
	}

	return client, nil
}

// Sender возвращает адрес отправителя.
func (t *Transport) Sender() string {
	if t.cfg.SMTPUser == "" {
		return "no-reply@jam.local"
	}
	return t.cfg.SMTPUser
}

func (t *Transport) closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		t.log.Error("failed to close smtp connection", sl.Err(err))
	}
}
