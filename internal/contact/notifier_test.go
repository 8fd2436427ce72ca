package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/validation"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestSMTPNotifier(gap time.Duration, sendErr error) (*SMTPNotifier, *[]sentMail) {
	n := NewSMTPNotifier(config.SMTPConfig{
		Host:      "smtp.example.com",
		Port:      2525,
		User:      "user",
		Pass:      "secret",
		From:      "site@folio.dev",
		Recipient: "owner@folio.dev",
		MinGap:    gap,
	}, "Folio")

	var sent []sentMail
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return sendErr
	}
	return n, &sent
}

var testForm = validation.ContactForm{
	Name:    "Jo",
	Email:   "jo@example.com",
	Subject: "Hello\r\nBcc: victim@example.com",
	Message: "I would like to talk.",
}

func TestSMTPNotifier_Sends(t *testing.T) {
	n, sent := newTestSMTPNotifier(time.Millisecond, nil)

	if err := n.Notify(context.Background(), testForm); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(*sent))
	}

	mail := (*sent)[0]
	if mail.addr != "smtp.example.com:2525" {
		t.Errorf("addr = %q", mail.addr)
	}
	if mail.from != "site@folio.dev" || len(mail.to) != 1 || mail.to[0] != "owner@folio.dev" {
		t.Errorf("envelope = %s -> %v", mail.from, mail.to)
	}
	if !strings.Contains(mail.msg, "Subject: [Folio] Hello  Bcc: victim@example.com\r\n") {
		t.Errorf("subject header not flattened:\n%s", mail.msg)
	}
	if strings.Contains(mail.msg, "\r\nBcc:") {
		t.Error("header injection leaked into message")
	}
	if !strings.Contains(mail.msg, "Reply-To: jo@example.com\r\n") {
		t.Error("missing Reply-To header")
	}
	if strings.Contains(mail.msg, "Phone:") {
		t.Error("unexpected Phone line for form without phone")
	}
}

func TestSMTPNotifier_Throttles(t *testing.T) {
	n, sent := newTestSMTPNotifier(time.Hour, nil)

	if err := n.Notify(context.Background(), testForm); err != nil {
		t.Fatalf("first Notify failed: %v", err)
	}

	start := time.Now()
	if err := n.Notify(context.Background(), testForm); err == nil {
		t.Fatal("Expected second Notify inside the gap to fail")
	}
	if time.Since(start) > time.Second {
		t.Error("throttled Notify should fail fast instead of waiting")
	}
	if len(*sent) != 1 {
		t.Errorf("sent %d mails, want 1", len(*sent))
	}
}

func TestSMTPNotifier_SendError(t *testing.T) {
	n, _ := newTestSMTPNotifier(time.Millisecond, errors.New("connection refused"))

	if err := n.Notify(context.Background(), testForm); err == nil {
		t.Fatal("Expected send error to surface")
	}
}

func TestNewNotifier(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "Folio"}}
	if _, ok := NewNotifier(cfg, logger.NewNop()).(*LogNotifier); !ok {
		t.Error("Expected LogNotifier without SMTP config")
	}

	cfg.SMTP = config.SMTPConfig{Host: "smtp.example.com", User: "u", Pass: "p"}
	if _, ok := NewNotifier(cfg, logger.NewNop()).(*SMTPNotifier); !ok {
		t.Error("Expected SMTPNotifier with SMTP config")
	}
}

func TestLogNotifier(t *testing.T) {
	if err := NewLogNotifier(nil).Notify(context.Background(), testForm); err != nil {
		t.Errorf("Notify failed: %v", err)
	}
}
