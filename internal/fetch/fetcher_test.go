package fetch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/onionwatch/internal/tor"
)

func TestTargetURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		want    string
		wantErr error
	}{
		{name: "bare onion gets http", target: "example.onion", want: "http://example.onion"},
		{name: "path is kept", target: "example.onion/forum?id=1", want: "http://example.onion/forum?id=1"},
		{name: "https is kept", target: "https://example.com", want: "https://example.com"},
		{name: "surrounding space", target: "  example.onion  ", want: "http://example.onion"},
		{name: "empty", target: "   ", wantErr: ErrEmptyTarget},
		{name: "unsupported scheme", target: "ftp://example.onion", wantErr: ErrInvalidTarget},
		{name: "missing host", target: "http://", wantErr: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := TargetURL(tt.target)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("TargetURL(%q) error = %v, want %v", tt.target, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TargetURL(%q) unexpected error: %v", tt.target, err)
			}
			if u.String() != tt.want {
				t.Errorf("TargetURL(%q) = %q, want %q", tt.target, u.String(), tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("extracts visible text only", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head><title>Forum</title><style>body{color:red}</style></head>
<body><script>var secret = 1;</script>
<h1>Welcome</h1>
<p>There is a   security
threat here</p><noscript>enable js</noscript></body></html>`))
		}))
		t.Cleanup(srv.Close)

		page, err := New().Fetch(context.Background(), srv.Client(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if page.Text != "Welcome There is a security threat here" {
			t.Errorf("Text = %q", page.Text)
		}
		if page.Document.Title() != "Forum" {
			t.Errorf("Title() = %q, want Forum", page.Document.Title())
		}
		if page.Document.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", page.Document.StatusCode)
		}
	})

	t.Run("error status is not a failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html><body>not found</body></html>"))
		}))
		t.Cleanup(srv.Close)

		page, err := New().Fetch(context.Background(), srv.Client(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if page.Document.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", page.Document.StatusCode)
		}
		if page.Text != "not found" {
			t.Errorf("Text = %q, want %q", page.Text, "not found")
		}
	})

	t.Run("sends browser headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte("ok"))
		}))
		t.Cleanup(srv.Close)

		if _, err := New(WithUserAgent("watcher/1.0")).Fetch(context.Background(), srv.Client(), srv.URL); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if gotUA != "watcher/1.0" {
			t.Errorf("User-Agent = %q", gotUA)
		}
		if !strings.HasPrefix(gotAccept, "text/html") {
			t.Errorf("Accept = %q", gotAccept)
		}
	})

	t.Run("body is limited", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		t.Cleanup(srv.Close)

		page, err := New(WithMaxBodySize(10)).Fetch(context.Background(), srv.Client(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(page.Document.Raw) != 10 {
			t.Errorf("len(Raw) = %d, want 10", len(page.Document.Raw))
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		_, err := New(WithTimeout(50*time.Millisecond)).Fetch(context.Background(), srv.Client(), srv.URL)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Fetch() error = %v, want deadline exceeded", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		if _, err := New().Fetch(context.Background(), &http.Client{}, addr); err == nil {
			t.Error("expected error for closed server")
		}
	})

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		if _, err := New().Fetch(context.Background(), nil, "example.onion"); !errors.Is(err, ErrNoClient) {
			t.Errorf("Fetch() error = %v, want ErrNoClient", err)
		}
	})
}

// onionClient routes every request to srv, whatever the host.
func onionClient(srv *httptest.Server) *http.Client {
	addr := srv.Listener.Addr().String()
	return &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}}
}

func TestFetchOnionAddressCheck(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>hidden service</body></html>"))
	}))
	t.Cleanup(srv.Close)

	valid := tor.V3Address(bytes.Repeat([]byte{0x01}, 32))
	tests := []struct {
		name     string
		target   string
		wantWarn bool
	}{
		{"valid v3 address", valid, false},
		{"malformed onion address", "example.onion", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			f := New(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
			page, err := f.Fetch(context.Background(), onionClient(srv), tt.target)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if page.Text != "hidden service" {
				t.Errorf("Text = %q", page.Text)
			}
			if got := strings.Contains(logs.String(), "not a valid v3 address"); got != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v (%s)", got, tt.wantWarn, logs.String())
			}
		})
	}
}

func TestFetchReadable(t *testing.T) {
	t.Parallel()

	article := strings.Repeat("The market listing describes a new security threat to buyers. ", 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Post</title></head><body>
<nav><a href="/">Home</a> <a href="/login">Login</a></nav>
<article><h1>Advisory</h1><p>` + article + `</p><p>` + article + `</p></article>
<footer>Copyright footer</footer></body></html>`))
	}))
	t.Cleanup(srv.Close)

	page, err := New(WithTextMode(TextReadable)).Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !strings.Contains(page.Text, "security threat") {
		t.Errorf("readable text lost the article: %q", page.Text)
	}
}

func TestReadableTextFallback(t *testing.T) {
	t.Parallel()

	u, _ := TargetURL("example.onion")
	doc, err := Parse(u, []byte("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := doc.ReadableText(); got != doc.Text() {
		t.Errorf("ReadableText() = %q, want fallback %q", got, doc.Text())
	}
}

func TestRobots(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>public</body></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := New(WithRobots(true))

	t.Run("allowed path", func(t *testing.T) {
		t.Parallel()

		page, err := f.Fetch(context.Background(), srv.Client(), srv.URL+"/news")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if page.Text != "public" {
			t.Errorf("Text = %q", page.Text)
		}
	})

	t.Run("disallowed path", func(t *testing.T) {
		t.Parallel()

		_, err := f.Fetch(context.Background(), srv.Client(), srv.URL+"/private/board")
		if !errors.Is(err, ErrDisallowedByRobots) {
			t.Errorf("Fetch() error = %v, want ErrDisallowedByRobots", err)
		}
	})

	t.Run("ignored when disabled", func(t *testing.T) {
		t.Parallel()

		if _, err := New().Fetch(context.Background(), srv.Client(), srv.URL+"/private/board"); err != nil {
			t.Errorf("Fetch() error: %v", err)
		}
	})
}
