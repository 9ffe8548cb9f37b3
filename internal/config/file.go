package config

import "time"

// File represents the structure of the onionwatch YAML configuration file.
// Every field is optional; unset fields keep the value already in Config.
type File struct {
	Tor      TorSection      `yaml:"tor,omitempty"`
	Fetch    FetchSection    `yaml:"fetch,omitempty"`
	Storage  StorageSection  `yaml:"storage,omitempty"`
	Mail     MailSection     `yaml:"mail,omitempty"`
	Telegram TelegramSection `yaml:"telegram,omitempty"`
	Log      LogSection      `yaml:"log,omitempty"`
	Run      RunSection      `yaml:"run,omitempty"`
}

// TorSection configures the SOCKS proxy and control port.
type TorSection struct {
	ProxyHost       string        `yaml:"proxy_host,omitempty"`
	ProxyPort       int           `yaml:"proxy_port,omitempty"`
	ControlHost     string        `yaml:"control_host,omitempty"`
	ControlPort     int           `yaml:"control_port,omitempty"`
	ControlPassword string        `yaml:"control_password,omitempty"`
	CircuitRotation *bool         `yaml:"circuit_rotation,omitempty"`
	CheckProxy      *bool         `yaml:"check_proxy,omitempty"`
	Embedded        *bool         `yaml:"embedded,omitempty"`
	StartupTimeout  time.Duration `yaml:"startup_timeout,omitempty"`
}

// FetchSection configures page retrieval and text extraction.
type FetchSection struct {
	Timeout       time.Duration  `yaml:"timeout,omitempty"`
	Delay         *time.Duration `yaml:"delay,omitempty"`
	UserAgent     string         `yaml:"user_agent,omitempty"`
	MaxBodySize   int64          `yaml:"max_body_size,omitempty"`
	TextMode      string         `yaml:"text_mode,omitempty"`
	RespectRobots *bool          `yaml:"respect_robots,omitempty"`
}

// StorageSection selects and configures the record store.
type StorageSection struct {
	Driver        string `yaml:"driver,omitempty"`
	DBDir         string `yaml:"db_dir,omitempty"`
	MongoURI      string `yaml:"mongo_uri,omitempty"`
	MongoDatabase string `yaml:"mongo_database,omitempty"`
}

// MailSection configures the SMTP relay and sender account.
type MailSection struct {
	SenderAddress string `yaml:"sender_address,omitempty"`
	SenderSecret  string `yaml:"sender_secret,omitempty"`
	SMTPHost      string `yaml:"smtp_host,omitempty"`
	SMTPPort      int    `yaml:"smtp_port,omitempty"`
}

// TelegramSection configures the telegram notifier.
type TelegramSection struct {
	Token string `yaml:"token,omitempty"`
}

// LogSection configures diagnostics.
type LogSection struct {
	Level      string `yaml:"level,omitempty"`
	Format     string `yaml:"format,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
}

// RunSection holds the default targets and keywords.
type RunSection struct {
	Targets  []string `yaml:"targets,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// Apply merges the file's set fields into cfg.
func (f *File) Apply(cfg *Config) {
	setString(&cfg.ProxyHost, f.Tor.ProxyHost)
	setInt(&cfg.ProxyPort, f.Tor.ProxyPort)
	setString(&cfg.ControlHost, f.Tor.ControlHost)
	setInt(&cfg.ControlPort, f.Tor.ControlPort)
	setString(&cfg.ControlPassword, f.Tor.ControlPassword)
	setBool(&cfg.CircuitRotation, f.Tor.CircuitRotation)
	setBool(&cfg.CheckProxy, f.Tor.CheckProxy)
	setBool(&cfg.UseEmbeddedTor, f.Tor.Embedded)
	if f.Tor.StartupTimeout > 0 {
		cfg.TorStartupTimeout = f.Tor.StartupTimeout
	}

	if f.Fetch.Timeout > 0 {
		cfg.FetchTimeout = f.Fetch.Timeout
	}
	if f.Fetch.Delay != nil {
		cfg.Delay = *f.Fetch.Delay
	}
	setString(&cfg.UserAgent, f.Fetch.UserAgent)
	if f.Fetch.MaxBodySize != 0 {
		cfg.MaxBodySize = f.Fetch.MaxBodySize
	}
	setString(&cfg.TextMode, f.Fetch.TextMode)
	setBool(&cfg.RespectRobots, f.Fetch.RespectRobots)

	setString(&cfg.StorageDriver, f.Storage.Driver)
	setString(&cfg.DBDir, f.Storage.DBDir)
	setString(&cfg.MongoURI, f.Storage.MongoURI)
	setString(&cfg.MongoDatabase, f.Storage.MongoDatabase)

	setString(&cfg.SenderAddress, f.Mail.SenderAddress)
	setString(&cfg.SenderSecret, f.Mail.SenderSecret)
	setString(&cfg.SMTPHost, f.Mail.SMTPHost)
	setInt(&cfg.SMTPPort, f.Mail.SMTPPort)

	setString(&cfg.TelegramToken, f.Telegram.Token)

	setString(&cfg.LogLevel, f.Log.Level)
	setString(&cfg.LogFormat, f.Log.Format)
	setString(&cfg.LogFile, f.Log.File)
	setInt(&cfg.LogMaxSizeMB, f.Log.MaxSizeMB)
	setInt(&cfg.LogMaxBackups, f.Log.MaxBackups)

	if len(f.Run.Targets) > 0 {
		cfg.Targets = f.Run.Targets
	}
	if len(f.Run.Keywords) > 0 {
		cfg.Keywords = f.Run.Keywords
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
