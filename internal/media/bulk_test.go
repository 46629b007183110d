package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/testutil"
)

type recordingUploader struct {
	params []UploadParams
	fail   map[string]bool
}

func (r *recordingUploader) Upload(ctx context.Context, p UploadParams, body io.Reader) (Resource, error) {
	r.params = append(r.params, p)
	if r.fail[p.PublicID] {
		return Resource{}, errors.New("file too large")
	}
	_, _ = io.Copy(io.Discard, body)
	return Resource{PublicID: p.Folder + "/" + p.PublicID}, nil
}

func TestBulkUploader_UploadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ana.jpg", "ben.PNG", "big.jpeg", "broken.gif", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}

	var temps []string
	fit := func(src string) (string, bool, error) {
		if filepath.Base(src) != "big.jpeg" {
			return src, false, nil
		}
		tmp := filepath.Join(t.TempDir(), "small.jpg")
		require.NoError(t, os.WriteFile(tmp, []byte("small"), 0o644))
		temps = append(temps, tmp)
		return tmp, true, nil
	}

	up := &recordingUploader{fail: map[string]bool{"broken": true}}
	res, err := NewBulkUploader(up, fit, testutil.Logger()).UploadDir(context.Background(), dir, PartyFolder)
	require.NoError(t, err)

	assert.Equal(t, BulkResult{Uploaded: 3, Compressed: 1, Failed: 1}, res)
	require.Len(t, up.params, 4)
	for _, p := range up.params {
		assert.Equal(t, PartyFolder, p.Folder)
		assert.True(t, p.Overwrite)
	}
	assert.Equal(t, "big", up.params[2].PublicID)
	require.Len(t, temps, 1)
	assert.NoFileExists(t, temps[0], "temporary compressed file is removed")
}

func TestBulkUploader_MissingDir(t *testing.T) {
	_, err := NewBulkUploader(&recordingUploader{}, nil, testutil.Logger()).UploadDir(context.Background(), filepath.Join(t.TempDir(), "nope"), LocationsFolder)
	assert.Error(t, err)
}
