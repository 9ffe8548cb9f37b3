package tor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// fakeController records control port calls.
type fakeController struct {
	authErr     error
	identityErr error
	identities  int
	closed      bool
}

func (f *fakeController) Authenticate() error { return f.authErr }

func (f *fakeController) NewIdentity(context.Context) error {
	f.identities++
	return f.identityErr
}

func (f *fakeController) Close() error {
	f.closed = true
	return nil
}

func dialerFor(ctrl *fakeController, dialErr error) ControlDialer {
	return func(string, time.Duration) (Controller, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return ctrl, nil
	}
}

// TestAcquireSession tests session acquisition with and without rotation.
func TestAcquireSession(t *testing.T) {
	t.Parallel()

	t.Run("without rotation builds a session", func(t *testing.T) {
		t.Parallel()

		p := NewProvider("127.0.0.1:9050", WithProviderLogger(discardLogger()))
		session, err := p.AcquireSession(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.HTTP == nil || session.Rotated {
			t.Errorf("unexpected session: %+v", session)
		}
	})

	t.Run("successful rotation marks the session", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{}
		p := NewProvider("127.0.0.1:9050",
			WithCircuitRotation("127.0.0.1:9051", dialerFor(ctrl, nil)),
			WithRequestTimeout(5*time.Second),
			WithProviderLogger(discardLogger()),
		)

		session, err := p.AcquireSession(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !session.Rotated {
			t.Error("expected session to be marked rotated")
		}
		if ctrl.identities != 1 || !ctrl.closed {
			t.Errorf("expected one NEWNYM and a closed control connection, got %+v", ctrl)
		}
		if session.HTTP.Timeout != 5*time.Second {
			t.Errorf("expected request timeout 5s, got %v", session.HTTP.Timeout)
		}
	})

	t.Run("unreachable control port fails", func(t *testing.T) {
		t.Parallel()

		p := NewProvider("127.0.0.1:9050",
			WithCircuitRotation("127.0.0.1:9051", dialerFor(nil, errors.New("connection refused"))),
			WithProviderLogger(discardLogger()),
		)

		session, err := p.AcquireSession(context.Background())
		if !errors.Is(err, ErrControlUnavailable) {
			t.Errorf("expected ErrControlUnavailable, got %v", err)
		}
		if session != nil {
			t.Error("expected no session")
		}
	})

	t.Run("rejected credential fails", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{authErr: errors.New("515 Authentication failed")}
		p := NewProvider("127.0.0.1:9050",
			WithCircuitRotation("127.0.0.1:9051", dialerFor(ctrl, nil)),
			WithProviderLogger(discardLogger()),
		)

		_, err := p.AcquireSession(context.Background())
		if !errors.Is(err, ErrControlAuth) {
			t.Errorf("expected ErrControlAuth, got %v", err)
		}
		if ctrl.identities != 0 {
			t.Error("expected no NEWNYM after failed authentication")
		}
	})

	t.Run("refused NEWNYM still builds a session", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{identityErr: errors.New("552 rate limited")}
		p := NewProvider("127.0.0.1:9050",
			WithCircuitRotation("127.0.0.1:9051", dialerFor(ctrl, nil)),
			WithProviderLogger(discardLogger()),
		)

		session, err := p.AcquireSession(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Rotated {
			t.Error("expected session not to be marked rotated")
		}
	})

	t.Run("invalid proxy address fails", func(t *testing.T) {
		t.Parallel()

		p := NewProvider("not-an-address", WithProviderLogger(discardLogger()))
		if _, err := p.AcquireSession(context.Background()); !errors.Is(err, ErrInvalidProxyAddress) {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})

	t.Run("failed proxy check fails", func(t *testing.T) {
		t.Parallel()

		p := NewProvider(closedAddress(t), WithProxyCheck(true), WithProviderLogger(discardLogger()))
		if _, err := p.AcquireSession(context.Background()); !errors.Is(err, ErrProxyCannotConnect) {
			t.Errorf("expected ErrProxyCannotConnect, got %v", err)
		}
	})

	t.Run("passing proxy check builds a session", func(t *testing.T) {
		t.Parallel()

		p := NewProvider(serveOnce(t, fakeSOCKS5), WithProxyCheck(true), WithProviderLogger(discardLogger()))
		if _, err := p.AcquireSession(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
