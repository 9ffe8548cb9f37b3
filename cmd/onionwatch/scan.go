package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/onionwatch/internal/model"
	"github.com/nao1215/onionwatch/internal/report"
)

// scanOptions holds the scan command flags.
type scanOptions struct {
	targets     []string
	keywords    []string
	export      string
	output      string
	recipient   string
	channel     string
	embeddedTor bool
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [target...]",
		Short: "Fetch targets through Tor and record keywords and sentiment",
		Long: `Scan fetches each target through Tor, detects the configured keywords in
the page text, classifies its sentiment and stores the finding.

Targets are taken from the arguments, then --targets, then the
configuration file. A target that cannot be fetched is skipped.

Examples:
  # Scan two hidden services for the default keywords
  onionwatch scan exampleonion.onion otheronion.onion

  # Choose keywords and export the results as CSV
  onionwatch scan --keywords "leak,breach" --export csv exampleonion.onion

  # Mail every stored record after the run
  onionwatch scan --notify analyst@example.com exampleonion.onion

  # Start a private Tor daemon instead of using a local proxy
  onionwatch scan --embedded-tor exampleonion.onion`,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("targets", "u", "", "Comma-separated list of targets")
	cmd.Flags().StringP("keywords", "k", "", "Comma-separated list of keywords")
	cmd.Flags().StringP("export", "e", "", "Export results as json or csv")
	cmd.Flags().StringP("output", "o", "", "Export file path; the format follows the extension unless --export is set (default: "+DefaultExportDir+"/"+DefaultExportBase+".<format>)")
	cmd.Flags().StringP("notify", "n", "", "Send stored records to this recipient after the run")
	cmd.Flags().String("channel", channelEmail, "Notification channel: email or telegram")
	cmd.Flags().Bool("embedded-tor", false, "Start an embedded Tor daemon")

	return cmd
}

// buildScanOptions reads flags and falls back to cfg values.
func buildScanOptions(cmd *cobra.Command, args []string, a *app) (*scanOptions, error) {
	opts := &scanOptions{}

	targets, err := cmd.Flags().GetString("targets")
	if err != nil {
		return nil, err
	}
	keywords, err := cmd.Flags().GetString("keywords")
	if err != nil {
		return nil, err
	}
	if opts.export, err = cmd.Flags().GetString("export"); err != nil {
		return nil, err
	}
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if opts.recipient, err = cmd.Flags().GetString("notify"); err != nil {
		return nil, err
	}
	if opts.channel, err = cmd.Flags().GetString("channel"); err != nil {
		return nil, err
	}
	if opts.embeddedTor, err = cmd.Flags().GetBool("embedded-tor"); err != nil {
		return nil, err
	}

	switch {
	case len(args) > 0:
		opts.targets = append(opts.targets, args...)
	case targets != "":
		opts.targets = model.ParseList(targets)
	default:
		opts.targets = a.cfg.Targets
	}

	opts.keywords = a.cfg.Keywords
	if keywords != "" {
		opts.keywords = model.ParseList(keywords)
	}

	return opts, nil
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := buildScanOptions(cmd, args, a)
	if err != nil {
		return err
	}

	var format report.Format
	switch {
	case opts.export != "":
		if format, err = report.ParseFormat(opts.export); err != nil {
			return err
		}
	case opts.output != "":
		if format, err = report.FormatFromPath(opts.output); err != nil {
			return err
		}
	}
	if opts.embeddedTor {
		a.cfg.UseEmbeddedTor = true
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("failed to close record store", "error", err)
		}
	}()

	results, err := a.runTargets(ctx, store, opts.targets, opts.keywords)
	if err != nil && len(results) == 0 {
		return err
	}

	fmt.Fprintln(a.out)
	if err := report.WriteResultsTable(a.out, results); err != nil {
		return err
	}

	if format != "" && len(results) > 0 {
		path, err := exportResults(opts.output, format, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported to %s\n", path)
	}

	if opts.recipient != "" {
		return a.sendNotification(ctx, store, opts.channel, opts.recipient)
	}
	return nil
}
