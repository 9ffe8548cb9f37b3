package tor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Session is an HTTP client routed through the Tor SOCKS proxy.
// It is created once per run and reused unchanged for every target.
//
// Design decision: One session per run rather than one per target. A new
// identity is requested once, before the first fetch, so every target of
// a run is seen from the same exit path and the control port is touched
// only once.
type Session struct {
	// HTTP performs the requests.
	HTTP *http.Client

	// ProxyAddress is the SOCKS endpoint the session dials through.
	ProxyAddress string

	// Rotated reports whether Tor accepted the new identity signal.
	Rotated bool
}

// Provider acquires sessions.
type Provider struct {
	proxyAddress   string
	controlAddress string
	dialControl    ControlDialer
	rotate         bool
	checkProxy     bool
	timeout        time.Duration
	controlTimeout time.Duration
	logger         *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithCircuitRotation enables NEWNYM before each session using dial to
// reach the control port at controlAddress.
func WithCircuitRotation(controlAddress string, dial ControlDialer) ProviderOption {
	return func(p *Provider) {
		p.rotate = true
		p.controlAddress = controlAddress
		p.dialControl = dial
	}
}

// WithProxyCheck makes AcquireSession fail when the SOCKS endpoint does
// not answer a SOCKS5 handshake.
func WithProxyCheck(check bool) ProviderOption {
	return func(p *Provider) {
		p.checkProxy = check
	}
}

// WithRequestTimeout sets the per-request timeout of session clients.
func WithRequestTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		p.timeout = timeout
	}
}

// WithControlTimeout bounds control port exchanges.
func WithControlTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		p.controlTimeout = timeout
	}
}

// WithProviderLogger sets the logger.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a Provider for the SOCKS proxy at proxyAddress.
func NewProvider(proxyAddress string, opts ...ProviderOption) *Provider {
	p := &Provider{
		proxyAddress:   proxyAddress,
		timeout:        10 * time.Second,
		controlTimeout: DefaultControlTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AcquireSession rotates the circuit, when enabled, and builds a session.
//
// An unreachable control port or a rejected credential fails the call and
// no session is returned. A NEWNYM signal refused after authentication is
// logged and the session is still built. Session construction failures,
// including a failed proxy check, fail the call.
func (p *Provider) AcquireSession(ctx context.Context) (*Session, error) {
	rotated := false
	if p.rotate {
		err := RotateCircuit(ctx, p.dialControl, p.controlAddress, p.controlTimeout)
		var rotErr *RotationError
		switch {
		case err == nil:
			rotated = true
			p.logger.Info("requested new Tor identity", "control", p.controlAddress)
		case errors.As(err, &rotErr):
			p.logger.Warn("circuit rotation refused, continuing with current circuit", "error", rotErr.Err)
		default:
			return nil, err
		}
	}

	client, err := NewClient(p.proxyAddress, p.timeout)
	if err != nil {
		return nil, err
	}

	if p.checkProxy {
		if status := client.CheckConnection(ctx); status != ProxyStatusOK {
			return nil, fmt.Errorf("proxy check at %s failed: %w", p.proxyAddress, status.Err())
		}
	}

	return &Session{
		HTTP:         client.NewHTTPClient(),
		ProxyAddress: p.proxyAddress,
		Rotated:      rotated,
	}, nil
}
