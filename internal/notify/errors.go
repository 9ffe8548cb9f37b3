package notify

import "errors"

var (
	// ErrMissingCredentials is returned when the sender address, secret or bot token is empty.
	ErrMissingCredentials = errors.New("missing sender credentials")

	// ErrAuthRejected is returned when the server refuses the credentials.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrNoRecords is returned when there is nothing stored to send.
	ErrNoRecords = errors.New("no records to send")

	// ErrInvalidRecipient is returned for a malformed recipient address or chat id.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrTransport wraps any other delivery failure.
	ErrTransport = errors.New("delivery failed")
)
