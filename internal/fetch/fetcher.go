package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/onionwatch/internal/tor"
)

const (
	// DefaultTimeout bounds a single target fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	// DefaultUserAgent mimics Tor Browser so hidden services treat us like a visitor.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:128.0) Gecko/20100101 Firefox/128.0"
)

// TextMode selects how a Document is reduced to text.
type TextMode string

const (
	// TextFull extracts every visible text node of the page.
	TextFull TextMode = "full"
	// TextReadable extracts only the main article content.
	TextReadable TextMode = "readable"
)

// Page is the outcome of a successful fetch.
type Page struct {
	Document *Document
	// Text is the extracted text according to the fetcher's TextMode.
	Text string
}

// Fetcher retrieves one target at a time over a session's HTTP client.
type Fetcher struct {
	userAgent     string
	maxBodySize   int64
	timeout       time.Duration
	textMode      TextMode
	respectRobots bool
	logger        *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the response body limit in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithTimeout sets the per-target timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithTextMode sets the text extraction mode.
func WithTextMode(mode TextMode) Option {
	return func(f *Fetcher) {
		if mode == TextFull || mode == TextReadable {
			f.textMode = mode
		}
	}
}

// WithRobots makes the fetcher honor robots.txt before fetching a target.
func WithRobots(respect bool) Option {
	return func(f *Fetcher) {
		f.respectRobots = respect
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
		textMode:    TextFull,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Timeout returns the per-target timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch retrieves target with a single GET through client and extracts its
// text. Any HTTP status is accepted; only transport failures, timeouts and
// unparseable bodies are errors.
func (f *Fetcher) Fetch(ctx context.Context, client *http.Client, target string) (*Page, error) {
	if client == nil {
		return nil, ErrNoClient
	}

	u, err := TargetURL(target)
	if err != nil {
		return nil, err
	}
	if host := u.Hostname(); tor.IsOnionHost(host) && !tor.IsValidV3Address(host) {
		f.logger.Warn("onion address is not a valid v3 address", "host", host)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.respectRobots {
		if err := f.checkRobots(ctx, client, u); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	f.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", u, err)
	}

	f.logger.Debug("fetched target",
		"url", u.String(),
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	doc, err := Parse(resp.Request.URL, body)
	if err != nil {
		return nil, err
	}
	doc.StatusCode = resp.StatusCode
	doc.ContentType = resp.Header.Get("Content-Type")

	page := &Page{Document: doc}
	if f.textMode == TextReadable {
		page.Text = doc.ReadableText()
	} else {
		page.Text = doc.Text()
	}
	return page, nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
}
