package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wedding-site/internal/drive"
	"wedding-site/internal/imaging"
	"wedding-site/internal/media"
)

func newPhotosCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Compress, upload and sync photos",
	}
	cmd.AddCommand(newPhotosCompressCmd(c), newPhotosUploadCmd(c), newPhotosSyncDriveCmd(c))
	return cmd
}

func newPhotosCompressCmd(c *cli) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "compress [dir...]",
		Short: "Compress images for the web (party and location directories by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{c.cfg.PartyImageDir, c.cfg.LocationImageDir}
			}
			opts := imaging.Options{MaxWidth: c.cfg.Compression.MaxWidth, Quality: c.cfg.Compression.Quality}

			out := cmd.OutOrStdout()
			for _, dir := range dirs {
				if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
					fmt.Fprintf(out, "Directory not found: %s\n", dir)
					continue
				}
				fmt.Fprintf(out, "\nCompressing images in: %s\n", dir)

				report, err := imaging.CompressDir(dir, opts, !keep, c.log)
				if err != nil {
					return err
				}
				for _, r := range report.Files {
					fmt.Fprintln(out, r)
				}
				for name, err := range report.Failed {
					fmt.Fprintf(out, "Error processing %s: %v\n", name, err)
				}
				if len(report.Files) > 0 {
					fmt.Fprintln(out, report)
				}
			}
			if keep {
				fmt.Fprintf(out, "\nCompressed files saved with '%s' suffix.\n", imaging.CompressedSuffix)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep-originals", false, "write <name>"+imaging.CompressedSuffix+" next to each original")
	return cmd
}

func newPhotosUploadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload party and location photos to the media host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.Media.Configured() {
				return fmt.Errorf("%w: set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET", media.ErrNotConfigured)
			}

			comp := c.cfg.Compression
			loop := imaging.LoopOptions{
				QualityStart:  comp.QualityStart,
				QualityFloor:  comp.QualityFloor,
				QualityStep:   comp.QualityStep,
				MaxDimension:  comp.MaxDimension,
				ResizeQuality: comp.ResizeQuality,
			}
			fit := func(src string) (string, bool, error) {
				return imaging.FitUnder(src, comp.MaxUploadSize, loop)
			}
			bulk := media.NewBulkUploader(media.NewClient(c.cfg.Media, c.log), fit, c.log)

			out := cmd.OutOrStdout()
			targets := []struct{ dir, folder string }{
				{c.cfg.PartyImageDir, media.PartyFolder},
				{c.cfg.LocationImageDir, media.LocationsFolder},
			}
			for _, t := range targets {
				if _, err := os.Stat(t.dir); errors.Is(err, os.ErrNotExist) {
					fmt.Fprintf(out, "Directory not found: %s\n", t.dir)
					continue
				}
				fmt.Fprintf(out, "\nLocal: %s\nMedia host: %s\n", t.dir, t.folder)

				res, err := bulk.UploadDir(cmd.Context(), t.dir, t.folder)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Uploaded: %d\n", res.Uploaded)
				if res.Compressed > 0 {
					fmt.Fprintf(out, "Compressed: %d\n", res.Compressed)
				}
				if res.Failed > 0 {
					fmt.Fprintf(out, "Failed: %d\n", res.Failed)
				}
			}
			return nil
		},
	}
}

func newPhotosSyncDriveCmd(c *cli) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "sync-drive <folder-id>",
		Short: "Download location photos from a shared Google Drive folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = c.cfg.LocationImageDir
			}
			syncer, err := drive.NewSyncer(cmd.Context(), c.cfg.GoogleAPIKey, dir, c.log)
			if err != nil {
				return err
			}

			res, err := syncer.Sync(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%w (is the folder shared with anyone who has the link?)", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded: %d\nAlready present: %d\nFailed: %d\n", res.Downloaded, res.Skipped, res.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "destination directory (defaults to LOCATION_IMAGE_DIR)")
	return cmd
}
