package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"sync"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers transactional email such as login links.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Server)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, compose(m.cfg.From, msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func compose(from string, msg Message) []byte {
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		msg.Body,
	}, "\r\n"))
}

// LogMailer writes messages to the log instead of sending them. It keeps the
// last messages so tests can read login links back.
type LogMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	log.Printf("mail to %s: %s\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}

// Last returns the most recent message, if any.
func (m *LogMailer) Last() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return Message{}, false
	}
	return m.sent[len(m.sent)-1], true
}
