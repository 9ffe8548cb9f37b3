package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/onionwatch/internal/analyzer"
	"github.com/nao1215/onionwatch/internal/config"
	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/fetch"
	applog "github.com/nao1215/onionwatch/internal/log"
	"github.com/nao1215/onionwatch/internal/notify"
	"github.com/nao1215/onionwatch/internal/pipeline"
	"github.com/nao1215/onionwatch/internal/tor"
)

// Notification channels accepted by --channel.
const (
	channelEmail    = "email"
	channelTelegram = "telegram"
)

var errUnknownChannel = errors.New("unknown notification channel")

// app bundles what every command needs: the loaded configuration and the
// process diagnostics.
type app struct {
	cfg    *config.Config
	diag   *applog.Diagnostics
	logger *slog.Logger
	out    io.Writer
}

// newApp loads configuration and sets up logging for cmd.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(getConfigFlag(cmd), os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	diag, err := applog.Setup(applog.Options{
		Level:      level,
		Console:    cmd.ErrOrStderr(),
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		JSON:       strings.EqualFold(cfg.LogFormat, config.LogFormatJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	if getVerboseFlag(cmd) {
		diag.SetLevel(slog.LevelDebug)
	}

	return &app{
		cfg:    cfg,
		diag:   diag,
		logger: diag.Logger,
		out:    cmd.OutOrStdout(),
	}, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// Close tears down diagnostics.
func (a *app) Close() {
	_ = a.diag.Close()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openStore opens the configured record store.
func (a *app) openStore(ctx context.Context) (database.Store, error) {
	store, err := database.OpenStore(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	a.logger.Debug("record store opened", "driver", a.cfg.StorageDriver)
	return store, nil
}

// newProvider builds the session provider. With an embedded daemon the
// returned stop function must be called when the run is over.
func (a *app) newProvider(ctx context.Context) (*tor.Provider, func(), error) {
	opts := []tor.ProviderOption{
		tor.WithProxyCheck(a.cfg.CheckProxy),
		tor.WithRequestTimeout(a.cfg.FetchTimeout),
		tor.WithControlTimeout(a.cfg.FetchTimeout),
		tor.WithProviderLogger(a.logger),
	}

	if !a.cfg.UseEmbeddedTor {
		if a.cfg.CircuitRotation {
			opts = append(opts, tor.WithCircuitRotation(a.cfg.ControlAddress(), tor.PasswordControlDialer(a.cfg.ControlPassword)))
		}
		return tor.NewProvider(a.cfg.ProxyAddress(), opts...), func() {}, nil
	}

	fmt.Fprintln(a.out, "Starting embedded Tor daemon...")
	fmt.Fprintln(a.out, "This may take 1-3 minutes while Tor bootstraps and connects to the network.")

	embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(a.cfg.TorStartupTimeout))
	if err := embedded.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}
	stop := func() {
		a.logger.Info("stopping embedded Tor daemon")
		if err := embedded.Stop(); err != nil {
			a.logger.Error("failed to stop embedded Tor", "error", err)
		}
	}

	a.logger.Info("embedded Tor daemon started",
		"socksAddr", embedded.SocksAddr(),
		"controlAddr", embedded.ControlAddr(),
	)

	if a.cfg.CircuitRotation {
		rotation, err := embedded.ProviderOptions()
		if err != nil {
			stop()
			return nil, nil, err
		}
		opts = append(opts, rotation...)
	}
	return tor.NewProvider(embedded.SocksAddr(), opts...), stop, nil
}

// newFetcher builds the fetcher from configuration.
func (a *app) newFetcher() *fetch.Fetcher {
	return fetch.New(
		fetch.WithUserAgent(a.cfg.UserAgent),
		fetch.WithMaxBodySize(a.cfg.MaxBodySize),
		fetch.WithTimeout(a.cfg.FetchTimeout),
		fetch.WithTextMode(fetch.TextMode(a.cfg.TextMode)),
		fetch.WithRobots(a.cfg.RespectRobots),
		fetch.WithLogger(a.logger),
	)
}

// newRunner wires the orchestrator.
func (a *app) newRunner(provider pipeline.SessionProvider, store database.Store, opts ...pipeline.RunnerOption) *pipeline.Runner {
	opts = append([]pipeline.RunnerOption{
		pipeline.WithRunnerLogger(a.logger),
		pipeline.WithDelay(a.cfg.Delay),
	}, opts...)
	return pipeline.NewRunner(provider, a.newFetcher(), analyzer.New(), store, opts...)
}

// newNotifier returns the notifier for channel.
func (a *app) newNotifier(channel string, store database.Store) (notify.Notifier, error) {
	switch channel {
	case channelEmail, "":
		return notify.NewEmailNotifier(notify.EmailConfig{
			SenderAddress: a.cfg.SenderAddress,
			SenderSecret:  a.cfg.SenderSecret,
			SMTPHost:      a.cfg.SMTPHost,
			SMTPPort:      a.cfg.SMTPPort,
		}, store, notify.WithEmailLogger(a.logger)), nil
	case channelTelegram:
		return notify.NewTelegramNotifier(a.cfg.TelegramToken, store, notify.WithTelegramLogger(a.logger)), nil
	default:
		return nil, fmt.Errorf("%w: %q (use email or telegram)", errUnknownChannel, channel)
	}
}

// notifyHint returns operator guidance for a notifier error, or "".
func notifyHint(err error) string {
	switch {
	case errors.Is(err, notify.ErrMissingCredentials):
		return "set EMAIL_ADDRESS and EMAIL_APP_PASSWORD, or TELEGRAM_BOT_TOKEN"
	case errors.Is(err, notify.ErrAuthRejected):
		return "check the sender address and app password"
	case errors.Is(err, notify.ErrInvalidRecipient):
		return "check the recipient"
	default:
		return ""
	}
}
