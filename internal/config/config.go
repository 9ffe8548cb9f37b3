package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	applog "github.com/nao1215/onionwatch/internal/log"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "onionwatch"

	// DefaultControlHost and DefaultControlPort locate the Tor control port.
	DefaultControlHost = "127.0.0.1"
	DefaultControlPort = 9051

	// DefaultProxyHost and DefaultProxyPort locate the Tor SOCKS port.
	// 127.0.0.1 avoids resolving localhost to an IPv6 address Tor is not bound to.
	DefaultProxyHost = "127.0.0.1"
	DefaultProxyPort = 9050

	// DefaultFetchTimeout bounds each single GET request.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultDelay is the fixed pause after each successfully processed target.
	DefaultDelay = 1 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read (5MB).
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent matches Tor Browser so fetches do not stand out.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:128.0) Gecko/20100101 Firefox/128.0"

	// DefaultSMTPHost and DefaultSMTPPort are the mail submission relay.
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultLogMaxSizeMB and DefaultLogMaxBackups control log file rotation.
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 5

	// Text extraction modes.
	TextModeFull     = "full"
	TextModeReadable = "readable"

	// Log record formats.
	LogFormatText = "text"
	LogFormatJSON = "json"

	// Storage drivers.
	StorageSQLite  = "sqlite"
	StorageMongoDB = "mongodb"

	// DefaultMongoDatabase is the database name used by the mongodb driver.
	DefaultMongoDatabase = "onionwatch"
)

// Default run inputs offered when the operator supplies none.
var (
	DefaultTargets  = []string{"example.onion"}
	DefaultKeywords = []string{"threat", "risk", "security"}
)

// Config holds every configuration option for onionwatch.
// It is built once at startup from defaults, the YAML file and the
// environment, then passed to the components that need it.
type Config struct {
	// SenderAddress is the mail account used as From and as SMTP username.
	SenderAddress string

	// SenderSecret is the application password for SenderAddress.
	SenderSecret string

	// SMTPHost and SMTPPort locate the mail submission relay (STARTTLS).
	SMTPHost string
	SMTPPort int

	// ControlHost, ControlPort and ControlPassword locate and authenticate
	// against the Tor control port used for circuit rotation.
	ControlHost     string
	ControlPort     int
	ControlPassword string

	// CircuitRotation requests a new Tor identity before each run.
	CircuitRotation bool

	// ProxyHost and ProxyPort locate the Tor SOCKS5 proxy.
	ProxyHost string
	ProxyPort int

	// CheckProxy verifies the SOCKS endpoint speaks SOCKS5 before a run.
	CheckProxy bool

	// UseEmbeddedTor starts a private Tor daemon instead of using ProxyHost/ControlHost.
	UseEmbeddedTor bool

	// TorStartupTimeout bounds the embedded daemon bootstrap.
	TorStartupTimeout time.Duration

	// FetchTimeout bounds each single GET request.
	FetchTimeout time.Duration

	// Delay is the pause after each successfully processed target.
	Delay time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// TextMode selects full visible text or readability-extracted main content.
	TextMode string

	// RespectRobots refuses targets disallowed by the site's robots.txt.
	RespectRobots bool

	// StorageDriver selects the record store backend.
	StorageDriver string

	// DBDir is the directory of the SQLite database file.
	DBDir string

	// MongoURI and MongoDatabase configure the mongodb backend.
	MongoURI      string
	MongoDatabase string

	// LogLevel is one of debug, info, warn (or warning), error.
	LogLevel string

	// LogFormat selects text or json log records.
	LogFormat string

	// LogFile is the rotated log file path. Empty disables file logging.
	LogFile string

	// LogMaxSizeMB and LogMaxBackups control rotation of LogFile.
	LogMaxSizeMB  int
	LogMaxBackups int

	// TelegramToken is the bot token used by the telegram notifier.
	TelegramToken string

	// Targets and Keywords are the defaults offered when the operator gives none.
	Targets  []string
	Keywords []string

	// ConfigFilePath is the path to the configuration file, if any was given.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		SMTPHost:          DefaultSMTPHost,
		SMTPPort:          DefaultSMTPPort,
		ControlHost:       DefaultControlHost,
		ControlPort:       DefaultControlPort,
		CircuitRotation:   true,
		ProxyHost:         DefaultProxyHost,
		ProxyPort:         DefaultProxyPort,
		TorStartupTimeout: DefaultTorStartupTimeout,
		FetchTimeout:      DefaultFetchTimeout,
		Delay:             DefaultDelay,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		TextMode:          TextModeFull,
		StorageDriver:     StorageSQLite,
		DBDir:             XDGDataDir(),
		MongoDatabase:     DefaultMongoDatabase,
		LogLevel:          "info",
		LogFormat:         LogFormatText,
		LogFile:           filepath.Join(XDGStateDir(), AppName+".log"),
		LogMaxSizeMB:      DefaultLogMaxSizeMB,
		LogMaxBackups:     DefaultLogMaxBackups,
		Targets:           append([]string(nil), DefaultTargets...),
		Keywords:          append([]string(nil), DefaultKeywords...),
	}
}

// ProxyAddress returns the SOCKS5 proxy address in "host:port" form.
func (c *Config) ProxyAddress() string {
	return net.JoinHostPort(c.ProxyHost, strconv.Itoa(c.ProxyPort))
}

// ControlAddress returns the control port address in "host:port" form.
func (c *Config) ControlAddress() string {
	return net.JoinHostPort(c.ControlHost, strconv.Itoa(c.ControlPort))
}

// Environment variables read once at startup.
const (
	EnvSenderAddress   = "EMAIL_ADDRESS"
	EnvSenderSecret    = "EMAIL_APP_PASSWORD"
	EnvControlPassword = "TOR_CONTROL_PASSWORD"
	EnvTelegramToken   = "TELEGRAM_BOT_TOKEN"
)

// ApplyEnv copies secrets from the environment into c.
// lookup is typically os.LookupEnv. Variables that are unset or empty leave
// the current value untouched, so the config file can still provide them.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&c.SenderAddress, EnvSenderAddress)
	set(&c.SenderSecret, EnvSenderSecret)
	set(&c.ControlPassword, EnvControlPassword)
	set(&c.TelegramToken, EnvTelegramToken)
}

// XDGDataDir returns the XDG data directory for onionwatch.
// On Linux: ~/.local/share/onionwatch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for onionwatch.
// On Linux: ~/.config/onionwatch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGStateDir returns the XDG state directory, where logs are kept.
// On Linux: ~/.local/state/onionwatch
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ProxyHost == "" || c.ControlHost == "" || c.SMTPHost == "" {
		return ErrEmptyHost
	}

	for _, port := range []int{c.ProxyPort, c.ControlPort, c.SMTPPort} {
		if port < 1 || port > 65535 {
			return ErrInvalidPort
		}
	}

	switch c.TextMode {
	case TextModeFull, TextModeReadable:
	default:
		return ErrUnknownTextMode
	}

	switch c.StorageDriver {
	case StorageSQLite:
	case StorageMongoDB:
		if c.MongoURI == "" {
			return ErrMissingMongoURI
		}
	default:
		return ErrUnknownStorageDriver
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case LogFormatText, LogFormatJSON:
	default:
		return ErrUnknownLogFormat
	}

	return nil
}
