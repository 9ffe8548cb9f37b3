package tor

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// DefaultControlTimeout bounds each control port exchange.
const DefaultControlTimeout = 10 * time.Second

// Controller is the subset of the Tor control protocol used for circuit
// rotation. *tornago.ControlClient satisfies it.
type Controller interface {
	Authenticate() error
	NewIdentity(ctx context.Context) error
	Close() error
}

// ControlDialer opens a control connection to addr.
type ControlDialer func(addr string, timeout time.Duration) (Controller, error)

// PasswordControlDialer returns a ControlDialer that authenticates with a
// HashedControlPassword credential.
func PasswordControlDialer(password string) ControlDialer {
	return func(addr string, timeout time.Duration) (Controller, error) {
		return tornago.NewControlClient(addr, tornago.ControlAuthFromPassword(password), timeout)
	}
}

// CookieControlDialer returns a ControlDialer that authenticates with the
// control auth cookie at cookiePath. The embedded daemon uses this.
func CookieControlDialer(cookiePath string) ControlDialer {
	return func(addr string, timeout time.Duration) (Controller, error) {
		return tornago.NewControlClient(addr, tornago.ControlAuthFromCookie(cookiePath), timeout)
	}
}

// RotationError reports a NEWNYM signal that Tor refused after a
// successful authentication. It does not prevent session construction.
type RotationError struct {
	Err error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("tor refused new identity signal: %v", e.Err)
}

func (e *RotationError) Unwrap() error {
	return e.Err
}

// RotateCircuit connects to the control port, authenticates and requests a
// new identity. Connection failures wrap ErrControlUnavailable and rejected
// credentials wrap ErrControlAuth. A refused signal is returned as
// *RotationError.
func RotateCircuit(ctx context.Context, dial ControlDialer, addr string, timeout time.Duration) error {
	ctrl, err := dial(addr, timeout)
	if err != nil {
		return fmt.Errorf("%w at %s: %w", ErrControlUnavailable, addr, err)
	}
	defer ctrl.Close()

	if err := ctrl.Authenticate(); err != nil {
		return fmt.Errorf("%w: %w", ErrControlAuth, err)
	}

	if err := ctrl.NewIdentity(ctx); err != nil {
		return &RotationError{Err: err}
	}

	return nil
}
