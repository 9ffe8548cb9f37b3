package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mattn/go-runewidth"

	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/model"
)

const (
	// telegramMessageLimit is the maximum message length accepted by the Bot API.
	telegramMessageLimit = 4096

	urlWidth     = 32
	keywordWidth = 24
	snippetWidth = 48
)

// TelegramNotifier sends stored records to a chat through a bot.
type TelegramNotifier struct {
	token    string
	endpoint string
	client   *http.Client
	store    database.Store
	logger   *slog.Logger
}

// TelegramOption configures a TelegramNotifier.
type TelegramOption func(*TelegramNotifier)

// WithTelegramEndpoint overrides the Bot API endpoint format.
func WithTelegramEndpoint(endpoint string) TelegramOption {
	return func(n *TelegramNotifier) {
		if endpoint != "" {
			n.endpoint = endpoint
		}
	}
}

// WithTelegramHTTPClient sets the HTTP client used to reach the Bot API.
func WithTelegramHTTPClient(client *http.Client) TelegramOption {
	return func(n *TelegramNotifier) {
		if client != nil {
			n.client = client
		}
	}
}

// WithTelegramLogger sets the logger.
func WithTelegramLogger(logger *slog.Logger) TelegramOption {
	return func(n *TelegramNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewTelegramNotifier creates a TelegramNotifier for the given bot token.
func NewTelegramNotifier(token string, store database.Store, opts ...TelegramOption) *TelegramNotifier {
	n := &TelegramNotifier{
		token:    token,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{},
		store:    store,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify implements Notifier. recipient is a numeric chat id or an
// @channel username.
func (n *TelegramNotifier) Notify(ctx context.Context, recipient string) error {
	if n.token == "" {
		return ErrMissingCredentials
	}

	recipient = strings.TrimSpace(recipient)
	var chatID int64
	if !strings.HasPrefix(recipient, "@") {
		id, err := strconv.ParseInt(recipient, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: chat id %q", ErrInvalidRecipient, recipient)
		}
		chatID = id
	}

	records, err := loadRecords(ctx, n.store, n.logger)
	if err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPIWithClient(n.token, n.endpoint, n.client)
	if err != nil {
		if strings.Contains(err.Error(), "Unauthorized") {
			return fmt.Errorf("%w: %w", ErrAuthRejected, err)
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	for _, chunk := range splitMessage(RecordsText(records), telegramMessageLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}

		var msg tgbotapi.MessageConfig
		if chatID == 0 {
			msg = tgbotapi.NewMessageToChannel(recipient, chunk)
		} else {
			msg = tgbotapi.NewMessage(chatID, chunk)
		}
		msg.DisableWebPagePreview = true

		if _, err := bot.Send(msg); err != nil {
			return fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	n.logger.Info("notification sent",
		"channel", "telegram",
		"recipient", recipient,
		"records", len(records),
	)
	return nil
}

// RecordsText renders records as a plain text table, one line per record.
func RecordsText(records []model.ScrapedRecord) string {
	var b strings.Builder
	b.WriteString(Subject)
	b.WriteString("\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "#%d %s | %s | %s | %s\n",
			r.ID,
			runewidth.Truncate(r.URL, urlWidth, "..."),
			r.Sentiment,
			runewidth.Truncate(r.Keywords, keywordWidth, "..."),
			runewidth.Truncate(r.ContentSnippet, snippetWidth, "..."),
		)
	}
	return b.String()
}

// splitMessage cuts text into pieces of at most limit runes, breaking at
// line ends where possible.
func splitMessage(text string, limit int) []string {
	var (
		chunks []string
		cur    strings.Builder
		size   int
	)
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if size+len(runes) > limit {
			flush()
		}
		cur.WriteString(string(runes))
		size += len(runes)
	}
	flush()
	return chunks
}
