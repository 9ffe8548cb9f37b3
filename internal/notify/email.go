package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/textproto"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/report"
)

const (
	// DefaultSMTPHost and DefaultSMTPPort point at Gmail's submission service.
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	defaultSMTPTimeout = 30 * time.Second
)

// Message is a rendered notification email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// EmailConfig holds the SMTP submission settings.
type EmailConfig struct {
	SenderAddress string
	SenderSecret  string
	SMTPHost      string
	SMTPPort      int
}

// SMTPSender submits messages over SMTP with STARTTLS and PLAIN auth.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

// NewSMTPSender creates a sender for cfg. Empty host and port fall back to
// the defaults.
func NewSMTPSender(cfg EmailConfig) *SMTPSender {
	s := &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SenderAddress,
		password: cfg.SenderSecret,
		timeout:  defaultSMTPTimeout,
	}
	if s.host == "" {
		s.host = DefaultSMTPHost
	}
	if s.port == 0 {
		s.port = DefaultSMTPPort
	}
	return s
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.username),
		mail.WithPassword(s.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, m)
}

// buildMsg converts msg into a MIME message.
func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("%w: sender %q: %w", ErrInvalidRecipient, msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRecipient, msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// EmailNotifier emails every stored record as an HTML table.
type EmailNotifier struct {
	cfg    EmailConfig
	store  database.Store
	sender Sender
	logger *slog.Logger
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSender replaces the SMTP sender.
func WithSender(s Sender) EmailOption {
	return func(n *EmailNotifier) {
		if s != nil {
			n.sender = s
		}
	}
}

// WithEmailLogger sets the logger.
func WithEmailLogger(logger *slog.Logger) EmailOption {
	return func(n *EmailNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewEmailNotifier creates an EmailNotifier reading from store.
func NewEmailNotifier(cfg EmailConfig, store database.Store, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{
		cfg:    cfg,
		store:  store,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.sender == nil {
		n.sender = NewSMTPSender(cfg)
	}
	return n
}

// Notify implements Notifier. Credentials are checked before the store is
// read, and an empty store sends nothing.
func (n *EmailNotifier) Notify(ctx context.Context, recipient string) error {
	if n.cfg.SenderAddress == "" || n.cfg.SenderSecret == "" {
		return ErrMissingCredentials
	}
	if strings.TrimSpace(recipient) == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidRecipient)
	}

	records, err := loadRecords(ctx, n.store, n.logger)
	if err != nil {
		return err
	}

	body, err := report.RecordsHTML(records)
	if err != nil {
		return err
	}

	msg := Message{
		From:    n.cfg.SenderAddress,
		To:      strings.TrimSpace(recipient),
		Subject: Subject,
		HTML:    body,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return classifySendError(err)
	}

	n.logger.Info("notification sent",
		"channel", "email",
		"recipient", msg.To,
		"records", len(records),
	)
	return nil
}

// authReplyCodes are the SMTP replies that refuse the session's credentials:
// 530 authentication required, 534 mechanism too weak, 535 credentials
// invalid and 538 encryption required for the mechanism.
var authReplyCodes = map[int]bool{530: true, 534: true, 535: true, 538: true}

// classifySendError maps a delivery error onto the package's sentinels using
// the structured errors go-mail returns, never the error text.
func classifySendError(err error) error {
	if errors.Is(err, ErrInvalidRecipient) {
		return err
	}

	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch {
		case authReplyCodes[sendErr.ErrorCode()]:
			return fmt.Errorf("%w: %w", ErrAuthRejected, err)
		case sendErr.Reason == mail.ErrSMTPRcptTo && !sendErr.IsTemp():
			return fmt.Errorf("%w: %w", ErrInvalidRecipient, err)
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && authReplyCodes[tpErr.Code] {
		return fmt.Errorf("%w: %w", ErrAuthRejected, err)
	}
	if errors.Is(err, mail.ErrPlainAuthNotSupported) || errors.Is(err, mail.ErrNoSupportedAuthDiscovered) {
		return fmt.Errorf("%w: %w", ErrAuthRejected, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
