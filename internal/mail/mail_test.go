package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Server: "smtp.example.com", Port: 587, User: "pantry", Password: "secret", From: "noreply@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if a == nil {
			t.Error("expected plain auth to be set")
		}
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := m.Send(context.Background(), Message{To: "ana@example.com", Subject: "Login", Body: "click here"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("unexpected addr %q", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "ana@example.com" {
		t.Errorf("unexpected recipients %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Login\r\n") || !strings.HasSuffix(gotMsg, "click here") {
		t.Errorf("unexpected message %q", gotMsg)
	}
}

func TestLogMailer_Last(t *testing.T) {
	m := NewLogMailer()
	if _, ok := m.Last(); ok {
		t.Error("expected no message yet")
	}
	_ = m.Send(context.Background(), Message{To: "a@example.com", Subject: "one"})
	_ = m.Send(context.Background(), Message{To: "b@example.com", Subject: "two"})

	msg, ok := m.Last()
	if !ok || msg.Subject != "two" {
		t.Errorf("expected last message 'two', got %+v", msg)
	}
}
