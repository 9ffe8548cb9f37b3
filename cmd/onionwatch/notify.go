package main

import (
	"github.com/spf13/cobra"
)

// NewNotifyCmd creates the notify command.
func NewNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify <recipient>",
		Short: "Send every stored record to a recipient",
		Long: `Notify sends every stored record to the recipient.

With --channel email (the default) the recipient is a mail address and the
records are rendered as an HTML table. With --channel telegram the
recipient is a numeric chat id or an @channel name.

Examples:
  onionwatch notify analyst@example.com
  onionwatch notify --channel telegram @threat_feed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := cmd.Flags().GetString("channel")
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

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

			return a.sendNotification(ctx, store, channel, args[0])
		},
	}

	cmd.Flags().String("channel", channelEmail, "Notification channel: email or telegram")
	return cmd
}
