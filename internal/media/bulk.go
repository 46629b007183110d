package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var bulkExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// FitFunc returns a path to upload for src. compressed reports a temporary file
// that the caller removes after use.
type FitFunc func(src string) (path string, compressed bool, err error)

type BulkResult struct {
	Uploaded   int
	Compressed int
	Failed     int
}

// BulkUploader pushes local image directories into media host folders
type BulkUploader struct {
	up  Uploader
	fit FitFunc
	log zerolog.Logger
}

// NewBulkUploader creates an uploader; a nil fit uploads files unchanged
func NewBulkUploader(up Uploader, fit FitFunc, log zerolog.Logger) *BulkUploader {
	if fit == nil {
		fit = func(src string) (string, bool, error) { return src, false, nil }
	}
	return &BulkUploader{up: up, fit: fit, log: log.With().Str("component", "bulk-upload").Logger()}
}

// UploadDir uploads every image in dir to folder, overwriting assets with the same
// public id. The public id is the file name without extension. Failures are counted
// and the run continues.
func (b *BulkUploader) UploadDir(ctx context.Context, dir, folder string) (BulkResult, error) {
	var res BulkResult

	entries, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !bulkExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		compressed, err := b.uploadFile(ctx, filepath.Join(dir, name), folder)
		if compressed {
			res.Compressed++
		}
		if err != nil {
			res.Failed++
			b.log.Error().Err(err).Str("file", name).Str("folder", folder).Msg("Upload failed")
			continue
		}
		res.Uploaded++
		b.log.Info().Str("file", name).Str("folder", folder).Bool("compressed", compressed).Msg("Uploaded")
	}
	return res, nil
}

func (b *BulkUploader) uploadFile(ctx context.Context, src, folder string) (bool, error) {
	path, compressed, err := b.fit(src)
	if err != nil {
		return false, err
	}
	if compressed {
		defer os.Remove(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return compressed, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(src)
	_, err = b.up.Upload(ctx, UploadParams{
		Folder:    folder,
		PublicID:  strings.TrimSuffix(name, filepath.Ext(name)),
		Filename:  filepath.Base(path),
		Overwrite: true,
	}, f)
	return compressed, err
}
