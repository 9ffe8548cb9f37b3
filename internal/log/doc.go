// Package log provides the process-wide diagnostics for onionwatch, built on
// the standard slog package.
//
// Setup creates the logger once at startup. It writes to the console and to
// a size-rotated log file, and every record passes through SecureHandler,
// which masks SMTP app passwords, control port passwords, bot tokens and
// other credentials before they reach either output.
//
// # Usage
//
//	diag, err := log.Setup(log.Options{
//	    Level:      slog.LevelInfo,
//	    File:       cfg.LogFile,
//	    MaxSizeMB:  cfg.LogMaxSizeMB,
//	    MaxBackups: cfg.LogMaxBackups,
//	})
//	if err != nil {
//	    return err
//	}
//	defer diag.Close()
//
//	runner := pipeline.NewRunner(provider, fetcher, analyzer, store,
//	    pipeline.WithRunnerLogger(diag.Logger))
//
// Components receive the logger explicitly; none of them reach for a global.
package log
