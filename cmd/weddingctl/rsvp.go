package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wedding-site/internal/export"
	"wedding-site/internal/storage"
)

func newRSVPCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsvp",
		Short: "Inspect and export RSVPs",
	}
	cmd.AddCommand(newRSVPExportCmd(c), newRSVPListCmd(c))
	return cmd
}

func newRSVPExportCmd(c *cli) *cobra.Command {
	var format, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of every RSVP and guest",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			db, err := c.openDB()
			if err != nil {
				return err
			}

			path, n, err := export.NewExporter(storage.NewRSVPStore(db)).Export(cmd.Context(), dir, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	return cmd
}

func newRSVPListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every RSVP, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			list, err := storage.NewRSVPStore(db).List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tATTENDING\tGUESTS\tPHONE\tSUBMITTED")
			people := 0
			for _, r := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.FullName(), r.Attendance.Label(), len(r.Guests), r.Phone, r.SubmittedAt.Format("2006-01-02 15:04"))
				people += 1 + len(r.Guests)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d RSVPs, %d people\n", len(list), people)
			return nil
		},
	}
}
