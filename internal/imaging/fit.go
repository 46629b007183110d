package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// LoopOptions drive FitUnder
type LoopOptions struct {
	QualityStart  int
	QualityFloor  int
	QualityStep   int
	MaxDimension  int
	ResizeQuality int
	TempDir       string
}

// FitUnder returns a file no larger than ceiling bytes. A file already under the
// ceiling is returned unchanged with compressed=false. Otherwise a temporary JPEG
// is written and its path returned; the caller removes it.
//
// Quality descends from QualityStart by QualityStep while above QualityFloor. If
// that is not enough the longest side is limited to MaxDimension and encoded at
// ResizeQuality, then dimensions are halved until the result fits or reaches 1px.
func FitUnder(path string, ceiling int64, opts LoopOptions) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() <= ceiling {
		return path, false, nil
	}

	img, err := load(path)
	if err != nil {
		return "", false, err
	}

	data, err := shrink(img, ceiling, opts)
	if err != nil {
		return "", false, err
	}

	tmp, err := os.CreateTemp(opts.TempDir, "upload-*.jpg")
	if err != nil {
		return "", false, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", false, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", false, fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmp.Name(), true, nil
}

func shrink(img image.Image, ceiling int64, opts LoopOptions) ([]byte, error) {
	step := opts.QualityStep
	if step <= 0 {
		step = 1
	}

	var data []byte
	var err error
	for q := opts.QualityStart; q > opts.QualityFloor; q -= step {
		if data, err = encodeJPEG(img, q); err != nil {
			return nil, err
		}
		if int64(len(data)) <= ceiling {
			return data, nil
		}
	}

	b := img.Bounds()
	if opts.MaxDimension > 0 && (b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension) {
		img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
	}
	if data, err = encodeJPEG(img, opts.ResizeQuality); err != nil {
		return nil, err
	}

	for int64(len(data)) > ceiling {
		b := img.Bounds()
		if b.Dx() <= 1 && b.Dy() <= 1 {
			break
		}
		w, h := max(b.Dx()/2, 1), max(b.Dy()/2, 1)
		img = imaging.Resize(img, w, h, imaging.Lanczos)
		if data, err = encodeJPEG(img, opts.ResizeQuality); err != nil {
			return nil, err
		}
	}
	return data, nil
}
