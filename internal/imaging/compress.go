// Package imaging shrinks photos for the web and for the media host's upload limit.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// CompressedSuffix is appended to outputs when originals are kept
const CompressedSuffix = "_compressed.jpg"

var ErrTargetExists = errors.New("target file already exists")

type Options struct {
	MaxWidth int
	Quality  int
}

// Report describes one compressed file
type Report struct {
	Source     string
	Output     string
	Original   int64
	Compressed int64
}

// Reduction is the size saving in percent
func (r Report) Reduction() float64 {
	if r.Original == 0 {
		return 0
	}
	return float64(r.Original-r.Compressed) / float64(r.Original) * 100
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %s -> %s (%.1f%% reduction)",
		filepath.Base(r.Source), humanize.Bytes(uint64(r.Original)), humanize.Bytes(uint64(r.Compressed)), r.Reduction())
}

// IsImage reports whether name has one of exts (case insensitive)
func IsImage(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// load decodes path with EXIF orientation applied and alpha flattened onto white
func load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAtomic replaces dst with data via a temp file in the same directory
func writeAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".compress-*.jpg")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(dst), err)
	}
	return nil
}

// Compress re-encodes src as a JPEG at dst, scaling down to MaxWidth when wider.
// src and dst may be the same file.
func Compress(src, dst string, opts Options) (Report, error) {
	info, err := os.Stat(src)
	if err != nil {
		return Report{}, fmt.Errorf("failed to stat %s: %w", src, err)
	}

	img, err := load(src)
	if err != nil {
		return Report{}, err
	}
	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	data, err := encodeJPEG(img, opts.Quality)
	if err != nil {
		return Report{}, err
	}
	if err := writeAtomic(dst, data); err != nil {
		return Report{}, err
	}

	return Report{Source: src, Output: dst, Original: info.Size(), Compressed: int64(len(data))}, nil
}

// DirReport aggregates a directory run
type DirReport struct {
	Files  []Report
	Failed map[string]error
}

func (d DirReport) Totals() (original, compressed int64) {
	for _, r := range d.Files {
		original += r.Original
		compressed += r.Compressed
	}
	return original, compressed
}

func (d DirReport) String() string {
	orig, comp := d.Totals()
	pct := 0.0
	if orig > 0 {
		pct = float64(orig-comp) / float64(orig) * 100
	}
	return fmt.Sprintf("Compressed %d images, %s -> %s (%.1f%% reduction)",
		len(d.Files), humanize.Bytes(uint64(orig)), humanize.Bytes(uint64(comp)), pct)
}

// outputPath picks the destination for src. In place, jpegs are overwritten and
// pngs become <base>.jpg; otherwise the output gets CompressedSuffix.
func outputPath(src string, inPlace bool) string {
	base := strings.TrimSuffix(src, filepath.Ext(src))
	if !inPlace {
		return base + CompressedSuffix
	}
	if IsImage(src, ".jpg", ".jpeg") {
		return src
	}
	return base + ".jpg"
}

// CompressDir compresses every .png, .jpg and .jpeg in dir. One failing file does
// not stop the run.
func CompressDir(dir string, opts Options, inPlace bool, log zerolog.Logger) (DirReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DirReport{}, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	report := DirReport{Failed: map[string]error{}}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !IsImage(name, ".png", ".jpg", ".jpeg") || strings.HasSuffix(name, CompressedSuffix) {
			continue
		}

		src := filepath.Join(dir, name)
		dst := outputPath(src, inPlace)
		if dst != src {
			if _, err := os.Stat(dst); err == nil {
				report.Failed[name] = ErrTargetExists
				log.Warn().Str("file", name).Str("target", filepath.Base(dst)).Msg("Skipping image, target exists")
				continue
			}
		}

		r, err := Compress(src, dst, opts)
		if err != nil {
			report.Failed[name] = err
			log.Error().Err(err).Str("file", name).Msg("Failed to compress image")
			continue
		}
		if inPlace && dst != src {
			if err := os.Remove(src); err != nil {
				log.Warn().Err(err).Str("file", name).Msg("Failed to remove original")
			}
		}

		report.Files = append(report.Files, r)
		log.Info().Str("file", name).Msg(r.String())
	}
	return report, nil
}
