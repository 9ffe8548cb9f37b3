package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/onionwatch/internal/model"
	"github.com/nao1215/onionwatch/internal/report"
)

// Defaults offered by the interactive prompts.
const (
	defaultPromptTargets  = "example.onion"
	defaultPromptKeywords = "threat,risk,security"
)

// prompter reads answers line by line. At end of input every question
// takes its default.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) readLine() string {
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// ask returns the answer, or def when the answer is blank.
func (p *prompter) ask(label, def string) string {
	if def != "" {
		fmt.Fprintf(p.out, "%s (%s): ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if answer := p.readLine(); answer != "" {
		return answer
	}
	return def
}

// confirm asks a yes/no question; anything but y or yes is no.
func (p *prompter) confirm(label string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", label)
	switch strings.ToLower(p.readLine()) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// choose repeats the question until the answer is one of choices.
func (p *prompter) choose(label string, choices []string, def string) string {
	for {
		answer := strings.ToLower(p.ask(fmt.Sprintf("%s [%s]", label, strings.Join(choices, "/")), def))
		if slices.Contains(choices, answer) {
			return answer
		}
		fmt.Fprintf(p.out, "Please select one of: %s\n", strings.Join(choices, ", "))
		if p.in.Err() != nil {
			return def
		}
	}
}

// NewInteractiveCmd creates the interactive command.
func NewInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for targets and keywords, then scan",
		Long: `Interactive asks for targets and keywords, runs a scan with live
progress, shows the results and offers to export them and to mail every
stored record.`,
		Args: cobra.NoArgs,
		RunE: runInteractiveCmd,
	}
	return cmd
}

func runInteractiveCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	p := newPrompter(cmd.InOrStdin(), a.out)
	fmt.Fprintln(a.out, "onionwatch - dark web keyword and sentiment monitor")
	fmt.Fprintln(a.out)

	targets := model.ParseList(p.ask("Enter URLs", defaultPromptTargets))
	keywords := model.ParseList(p.ask("Enter Keywords", defaultPromptKeywords))
	a.logger.Info("interactive run configured", "targets", targets, "keywords", keywords)

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("failed to close record store", "error", err)
		}
	}()

	// A failed session still leads to the email offer; only an interrupt
	// ends the session early.
	results, err := a.runTargets(ctx, store, targets, keywords)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		a.logger.Error("scan stopped", "error", err)
		fmt.Fprintf(a.out, "Scan stopped: %v\n", err)
	}

	fmt.Fprintln(a.out)
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No results found.")
	} else if err := report.WriteResultsTable(a.out, results); err != nil {
		return err
	}

	if len(results) > 0 && p.confirm("Do you want to export results?") {
		format := report.Format(p.choose("Select Export Format", []string{string(report.FormatJSON), string(report.FormatCSV)}, string(report.FormatJSON)))
		path, err := exportResults("", format, results)
		if err != nil {
			fmt.Fprintln(a.out, err)
		} else {
			fmt.Fprintf(a.out, "Exported to %s\n", path)
		}
	}

	if p.confirm("Send results via email?") {
		recipient := p.ask("Enter email address", "")
		if err := a.sendNotification(ctx, store, channelEmail, recipient); err != nil {
			fmt.Fprintln(a.out, err)
		}
	}
	return nil
}
