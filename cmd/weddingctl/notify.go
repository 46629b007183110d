package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wedding-site/internal/notify"
	"wedding-site/internal/sms"
	"wedding-site/internal/spreadsheet"
	"wedding-site/internal/whatsapp"
)

func newNotifyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send guest notifications",
	}
	cmd.AddCommand(newNotifySeatsCmd(c))
	return cmd
}

func newNotifySeatsCmd(c *cli) *cobra.Command {
	var dryRun bool
	var channel string

	cmd := &cobra.Command{
		Use:   "seats <rsvp-workbook.xlsx>",
		Short: "Text every seated guest their seat number and the photo upload link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("file not found: %w", err)
			}
			rows, err := spreadsheet.ReadSeating(f)
			f.Close()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reading %s\nDry run: %t\n", args[0], dryRun)

			// the sender stays nil on a dry run so no channel is ever contacted
			var sender notify.Sender
			if !dryRun {
				switch channel {
				case "sms":
					client, err := sms.NewClient(c.cfg.SMS, c.log)
					if err != nil {
						return fmt.Errorf("%w: set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER", err)
					}
					sender = client
				case "whatsapp":
					wa, err := whatsapp.NewService(cmd.Context(), whatsapp.Config{DataDir: c.cfg.WhatsAppDataDir}, c.log)
					if err != nil {
						return err
					}
					if !wa.LoggedIn() {
						return fmt.Errorf("no WhatsApp session: run 'weddingctl whatsapp login' first")
					}
					if err := wa.Connect(cmd.Context(), out); err != nil {
						return err
					}
					defer wa.Disconnect()
					sender = wa
				default:
					return fmt.Errorf("unknown channel %q (use sms or whatsapp)", channel)
				}
			}

			msg := notify.Message{
				BrideName: c.cfg.Wedding.BrideName,
				GroomName: c.cfg.Wedding.GroomName,
				UploadURL: c.cfg.Wedding.PhotoUploadURL,
			}
			sum := notify.NewDispatcher(sender, msg, out, c.log).Run(cmd.Context(), rows)

			fmt.Fprintf(out, "\nSUMMARY\nTotal messages sent: %d\nErrors: %d\nSkipped: %d\n", sum.Sent, sum.Errors, sum.Skipped)
			if dryRun {
				fmt.Fprintln(out, "\nDRY RUN - no messages were actually sent. Re-run without --dry-run to send.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print messages instead of sending")
	cmd.Flags().StringVar(&channel, "channel", "sms", "sms or whatsapp")
	return cmd
}
