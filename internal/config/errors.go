package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() when the configuration
// contains invalid values.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). Callers use errors.Is() to
// react to a specific problem while the message stays human-readable.
var (
	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidDelay is returned when the pause between targets is negative.
	// Use 0 for no pause.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidPort is returned when a control, proxy or SMTP port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrEmptyHost is returned when the control, proxy or SMTP host is empty.
	ErrEmptyHost = errors.New("invalid host: must not be empty")

	// ErrUnknownTextMode is returned when text_mode is neither "full" nor "readable".
	ErrUnknownTextMode = errors.New("unknown text mode: must be full or readable")

	// ErrUnknownStorageDriver is returned when the storage driver is not supported.
	ErrUnknownStorageDriver = errors.New("unknown storage driver: must be sqlite or mongodb")

	// ErrMissingMongoURI is returned when the mongodb driver is selected without a URI.
	ErrMissingMongoURI = errors.New("mongodb storage requires a connection URI")

	// ErrInvalidLogLevel is returned when the log level is not debug, info, warn or error.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn or error")

	// ErrUnknownLogFormat is returned when the log format is not text or json.
	ErrUnknownLogFormat = errors.New("unknown log format: must be text or json")
)
