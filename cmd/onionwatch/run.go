package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/model"
	"github.com/nao1215/onionwatch/internal/notify"
	"github.com/nao1215/onionwatch/internal/pipeline"
	"github.com/nao1215/onionwatch/internal/report"
)

// Default export location, completed with the format as extension.
const (
	DefaultExportDir  = "logs"
	DefaultExportBase = "dark_web_results"
)

var errNoTargets = errors.New("no targets given")

// runTargets processes targets in the background and prints progress to
// a.out until the run finishes. The returned error is the session or
// cancellation error of the run; per-target failures are only reported.
func (a *app) runTargets(ctx context.Context, store database.Store, targets, keywords []string) ([]model.RunResult, error) {
	if len(targets) == 0 {
		return nil, errNoTargets
	}

	provider, stop, err := a.newProvider(ctx)
	if err != nil {
		return nil, err
	}
	defer stop()

	observer := pipeline.NewChannelObserver(len(targets))
	runner := a.newRunner(provider, store, pipeline.WithObserver(observer))
	worker := pipeline.NewWorker(runner)

	if err := worker.Submit(ctx, targets, keywords); err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "Scraping %d target(s)...\n", len(targets))
	runErr := printProgress(a.out, observer.Events())

	results, err := worker.Wait()
	if runErr != nil {
		return results, runErr
	}
	return results, err
}

// printProgress writes one line per event and returns the error carried by
// the run finished event.
func printProgress(w io.Writer, events <-chan pipeline.Event) error {
	var runErr error
	for ev := range events {
		switch ev.Kind {
		case pipeline.EventTargetStarted:
			fmt.Fprintf(w, "[%d/%d] %s\n", ev.Index, ev.Total, ev.Target)
		case pipeline.EventTargetCompleted:
			fmt.Fprintf(w, "      sentiment: %s, keywords: %d\n", ev.Result.Sentiment, len(ev.Result.Keywords))
		case pipeline.EventTargetFailed:
			fmt.Fprintf(w, "      skipped: %v\n", ev.Err)
		case pipeline.EventRunFinished:
			runErr = ev.Err
		}
	}
	return runErr
}

// exportResults writes results to path, or to logs/dark_web_results.<format>
// when path is empty, and returns the path written.
func exportResults(path string, format report.Format, results []model.RunResult) (string, error) {
	if path == "" {
		path = defaultExportPath(format)
	}
	if err := report.ExportFile(path, format, results); err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	return path, nil
}

// defaultExportPath is the export file used when no path is given.
func defaultExportPath(format report.Format) string {
	return filepath.Join(DefaultExportDir, DefaultExportBase+"."+string(format))
}

// sendNotification delivers the stored records to recipient over channel.
func (a *app) sendNotification(ctx context.Context, store database.Store, channel, recipient string) error {
	notifier, err := a.newNotifier(channel, store)
	if err != nil {
		return err
	}
	if err := notifier.Notify(ctx, recipient); err != nil {
		if errors.Is(err, notify.ErrNoRecords) {
			fmt.Fprintln(a.out, "No data to send.")
			return nil
		}
		if hint := notifyHint(err); hint != "" {
			return fmt.Errorf("sending failed (%s): %w", hint, err)
		}
		return fmt.Errorf("sending failed: %w", err)
	}
	fmt.Fprintf(a.out, "Results sent to %s\n", recipient)
	return nil
}
