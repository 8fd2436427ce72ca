package contact

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/validation"
)

// Notifier delivers an accepted submission to the site owner.
type Notifier interface {
	Notify(ctx context.Context, form validation.ContactForm) error
}

// NewNotifier picks SMTP delivery when it is configured and falls back to
// logging otherwise.
func NewNotifier(cfg *config.Config, log *logger.Logger) Notifier {
	if cfg.SMTP.Enabled() {
		log.Infof("contact notifier: smtp host=%s port=%d", cfg.SMTP.Host, cfg.SMTP.Port)
		return NewSMTPNotifier(cfg.SMTP, cfg.App.Name)
	}
	log.Infof("contact notifier: log only")
	return NewLogNotifier(log)
}

// LogNotifier only records the submission.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogNotifier{log: log.Named("notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, form validation.ContactForm) error {
	n.log.Infow("contact submission received",
		"from", logger.MaskEmail(form.Email),
		"subject", form.Subject,
	)
	return nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// maxThrottleWait bounds how long a request may queue behind earlier mails.
const maxThrottleWait = 5 * time.Second

// SMTPNotifier mails each submission to the configured recipient. Sends are
// spaced at least MinGap apart.
type SMTPNotifier struct {
	addr      string
	auth      smtp.Auth
	from      string
	recipient string
	appName   string

	limiter *rate.Limiter
	send    sendFunc
}

func NewSMTPNotifier(cfg config.SMTPConfig, appName string) *SMTPNotifier {
	gap := cfg.MinGap
	if gap <= 0 {
		gap = config.DefaultSMTPMinGap
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultSMTPPort
	}

	return &SMTPNotifier{
		addr:      net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		auth:      smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host),
		from:      cfg.From,
		recipient: cfg.Recipient,
		appName:   appName,
		limiter:   rate.NewLimiter(rate.Every(gap), 1),
		send:      smtp.SendMail,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, form validation.ContactForm) error {
	waitCtx, cancel := context.WithTimeout(ctx, maxThrottleWait)
	defer cancel()

	if err := n.limiter.Wait(waitCtx); err != nil {
		return fmt.Errorf("smtp throttle: %w", err)
	}

	if err := n.send(n.addr, n.auth, n.from, []string{n.recipient}, n.message(form)); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}

var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

func (n *SMTPNotifier) message(form validation.ContactForm) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", n.recipient)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe.Replace(form.Email))
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", n.appName, headerSafe.Replace(form.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Name: %s\r\n", form.Name)
	fmt.Fprintf(&b, "Email: %s\r\n", form.Email)
	if form.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\r\n", form.Phone)
	}
	b.WriteString("\r\n")
	b.WriteString(form.Message)
	b.WriteString("\r\n")

	return b.Bytes()
}
