// Package drive downloads location photos from a publicly shared Google Drive folder.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var ErrNoAPIKey = errors.New("GOOGLE_API_KEY is not set")

var imageExts = []string{".jpg", ".jpeg", ".png"}

type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Syncer mirrors image files from a Drive folder into a local directory
type Syncer struct {
	files *drive.FilesService
	dir   string
	log   zerolog.Logger
}

// NewSyncer creates a Drive client authenticated with an API key.
// Extra options are appended after the key.
func NewSyncer(ctx context.Context, apiKey, dir string, log zerolog.Logger, opts ...option.ClientOption) (*Syncer, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	svc, err := drive.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &Syncer{
		files: svc.Files,
		dir:   dir,
		log:   log.With().Str("component", "drive").Logger(),
	}, nil
}

// Sync downloads every image in folderID that is not already present locally
func (s *Syncer) Sync(ctx context.Context, folderID string) (Result, error) {
	var res Result

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return res, fmt.Errorf("failed to create %s: %w", s.dir, err)
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", strings.ReplaceAll(folderID, "'", `\'`))
	err := s.files.List().
		Q(query).
		Fields("nextPageToken", "files(id, name, mimeType, size)").
		PageSize(100).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				s.syncFile(ctx, f, &res)
			}
			return nil
		})
	if err != nil {
		return res, fmt.Errorf("failed to list drive folder %s: %w", folderID, err)
	}
	return res, nil
}

func (s *Syncer) syncFile(ctx context.Context, f *drive.File, res *Result) {
	name := filepath.Base(f.Name)
	if !isImage(name, f.MimeType) {
		return
	}

	dst := filepath.Join(s.dir, name)
	if _, err := os.Stat(dst); err == nil {
		res.Skipped++
		s.log.Info().Str("file", name).Msg("Already exists")
		return
	}

	if err := s.download(ctx, f.Id, dst); err != nil {
		res.Failed++
		s.log.Error().Err(err).Str("file", name).Msg("Failed to download photo")
		return
	}
	res.Downloaded++
	s.log.Info().Str("file", name).Int64("bytes", f.Size).Msg("Downloaded photo")
}

func (s *Syncer) download(ctx context.Context, id, dst string) error {
	resp, err := s.files.Get(id).Context(ctx).Download()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(s.dir, ".drive-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func isImage(name, mimeType string) bool {
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}
