package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wedding-site/internal/locations"
	"wedding-site/internal/models"
	"wedding-site/internal/spreadsheet"
	"wedding-site/internal/storage"
)

func newLocationCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage journey map locations",
	}
	cmd.AddCommand(
		newLocationAddCmd(c),
		newLocationSeedCmd(c),
		newLocationTemplateCmd(),
		newLocationImportCmd(c),
		newLocationImportSheetCmd(c),
	)
	return cmd
}

func (c *cli) locationStore() (*storage.LocationStore, error) {
	db, err := c.openDB()
	if err != nil {
		return nil, err
	}
	return storage.NewLocationStore(db), nil
}

func newLocationAddCmd(c *cli) *cobra.Command {
	var loc models.Location
	var photo string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create or update one location",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.locationStore()
			if err != nil {
				return err
			}
			loc.IsActive = true
			loc.PhotoBaseName = locations.PhotoBaseName(photo)

			created, err := store.Upsert(cmd.Context(), &loc)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", loc.LocationName)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s\n", loc.LocationName)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&loc.LocationName, "name", "", "location name")
	f.StringVar(&loc.City, "city", "", "city")
	f.StringVar(&loc.StateCountry, "state", "", "state or country")
	f.Float64Var(&loc.Latitude, "lat", 0, "latitude")
	f.Float64Var(&loc.Longitude, "lng", 0, "longitude")
	f.StringVar(&loc.Description, "description", "", "description")
	f.StringVar(&loc.Significance, "significance", "", "why the place matters")
	f.StringVar(&loc.DateVisited, "date", "", "when it was visited")
	f.IntVar(&loc.Order, "order", 0, "display order")
	f.StringVar(&photo, "photo", "", "photo file name on the media host")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}

func newLocationSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.locationStore()
			if err != nil {
				return err
			}
			created, updated, err := locations.Seed(cmd.Context(), store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %d\nUpdated: %d\n", created, updated)
			return nil
		},
	}
}

func newLocationTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template [file]",
		Short: "Write the location import template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "location_template.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := spreadsheet.BuildLocationTemplate()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", path)
			return nil
		},
	}
}

func newLocationImportCmd(c *cli) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import locations from an xlsx or csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("file not found: %w", err)
			}
			defer f.Close()

			var rows []spreadsheet.Row
			if strings.EqualFold(filepath.Ext(args[0]), ".csv") {
				rows, err = spreadsheet.ReadCSV(f)
			} else {
				rows, err = spreadsheet.ReadRows(f)
			}
			if err != nil {
				return err
			}
			return c.importLocations(cmd, rows, clear)
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "delete existing locations first")
	return cmd
}

func newLocationImportSheetCmd(c *cli) *cobra.Command {
	var clear bool
	var baseURL string
	cmd := &cobra.Command{
		Use:   "import-sheet <sheet-id>",
		Short: "Import locations from a publicly shared Google Sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := locations.NewSheetFetcher(baseURL)
			fmt.Fprintf(cmd.OutOrStdout(), "Fetching %s\n", fetcher.ExportURL(args[0]))

			rows, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.importLocations(cmd, rows, clear)
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "delete existing locations first")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the Google Sheets endpoint")
	return cmd
}

func (c *cli) importLocations(cmd *cobra.Command, rows []spreadsheet.Row, clear bool) error {
	store, err := c.locationStore()
	if err != nil {
		return err
	}
	res, err := locations.NewImporter(store, c.log).Import(cmd.Context(), rows, clear)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if clear {
		fmt.Fprintf(out, "Deleted %d existing locations\n", res.Deleted)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(out, "Error on %v\n", e)
	}
	fmt.Fprintf(out, "Import completed!\nCreated: %d\nUpdated: %d\n", res.Created, res.Updated)
	if len(res.Errors) > 0 {
		fmt.Fprintf(out, "Errors: %d\n", len(res.Errors))
	}
	return nil
}
