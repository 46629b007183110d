package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"wedding-site/internal/testutil"
)

func fakeDrive(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		switch {
		case r.URL.Path == "/files":
			assert.Contains(t, r.URL.Query().Get("q"), "'folder1' in parents")
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("pageToken") == "" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"nextPageToken": "p2",
					"files": []map[string]any{
						{"id": "f1", "name": "wvu.jpg", "mimeType": "image/jpeg"},
						{"id": "f2", "name": "notes.txt", "mimeType": "text/plain"},
					},
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"files": []map[string]any{
					{"id": "f3", "name": "aviary.png", "mimeType": "image/png"},
					{"id": "f4", "name": "gone.jpg", "mimeType": "image/jpeg"},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/files/"):
			assert.Equal(t, "media", r.URL.Query().Get("alt"))
			id := strings.TrimPrefix(r.URL.Path, "/files/")
			if id == "f4" {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("image-" + id))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewSyncer_RequiresKey(t *testing.T) {
	_, err := NewSyncer(context.Background(), "", t.TempDir(), testutil.Logger())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSync(t *testing.T) {
	srv := fakeDrive(t)
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aviary.png"), []byte("local"), 0o644))

	s, err := NewSyncer(context.Background(), "test-key", dir, testutil.Logger(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	res, err := s.Sync(context.Background(), "folder1")
	require.NoError(t, err)
	assert.Equal(t, Result{Downloaded: 1, Skipped: 1, Failed: 1}, res)

	data, err := os.ReadFile(filepath.Join(dir, "wvu.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-f1", string(data))

	local, err := os.ReadFile(filepath.Join(dir, "aviary.png"))
	require.NoError(t, err)
	assert.Equal(t, "local", string(local), "existing files are not overwritten")
	assert.NoFileExists(t, filepath.Join(dir, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "gone.jpg"))
}
