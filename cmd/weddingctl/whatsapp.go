package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-site/internal/whatsapp"
)

func newWhatsAppCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Manage the WhatsApp notification channel",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Link this tool as a WhatsApp device by scanning a QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			wa, err := whatsapp.NewService(cmd.Context(), whatsapp.Config{DataDir: c.cfg.WhatsAppDataDir}, c.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if wa.LoggedIn() {
				fmt.Fprintln(out, "Already linked.")
				return nil
			}

			fmt.Fprintln(out, "Connecting to WhatsApp...")
			if err := wa.Connect(cmd.Context(), out); err != nil {
				return err
			}
			defer wa.Disconnect()
			fmt.Fprintln(out, "Connected to WhatsApp!")
			return nil
		},
	})
	return cmd
}
