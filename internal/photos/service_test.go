package photos

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/config"
	"wedding-site/internal/media"
	"wedding-site/internal/models"
	"wedding-site/internal/storage"
	"wedding-site/internal/testutil"
	"wedding-site/internal/validation"
)

type fakeHost struct {
	uploads   []media.UploadParams
	uploadErr error
	resources []media.Resource
	listErr   error
}

func (f *fakeHost) Upload(ctx context.Context, p media.UploadParams, r io.Reader) (media.Resource, error) {
	if f.uploadErr != nil {
		return media.Resource{}, f.uploadErr
	}
	f.uploads = append(f.uploads, p)
	id := p.Folder + "/" + p.PublicID
	return media.Resource{PublicID: id, SecureURL: "https://res.example.com/demo/image/upload/" + id + ".jpg"}, nil
}

func (f *fakeHost) List(ctx context.Context, prefix string, max int) ([]media.Resource, error) {
	return f.resources, f.listErr
}

type fakeRecorder struct{ results, failures []string }

func (f *fakeRecorder) PhotoUpload(r string)      { f.results = append(f.results, r) }
func (f *fakeRecorder) SideEffectFailed(e string) { f.failures = append(f.failures, e) }

var urls = media.NewURLBuilder(config.MediaConfig{CloudName: "demo", DeliveryURL: "https://res.example.com"})

func newTestService(t *testing.T, host *fakeHost, rec Recorder) (*Service, *storage.PhotoStore) {
	store := storage.NewPhotoStore(testutil.NewDB(t))
	return NewService(store, host, host, urls, rec, testutil.Logger()), store
}

func TestUpload_Success(t *testing.T) {
	host := &fakeHost{}
	rec := &fakeRecorder{}
	svc, store := newTestService(t, host, rec)
	ctx := context.Background()

	p, err := svc.Upload(ctx, UploadForm{Name: " Ana ", Caption: "First dance"}, "dance.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.True(t, p.IsApproved)
	assert.Equal(t, "Ana", p.UploadedByName)

	require.Len(t, host.uploads, 1)
	assert.Equal(t, media.GuestUploadFolder, host.uploads[0].Folder)
	assert.Len(t, host.uploads[0].PublicID, 36)
	assert.Equal(t, "dance.jpg", host.uploads[0].Filename)

	approved, err := store.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Contains(t, approved[0].PhotoURL, host.uploads[0].PublicID)
	assert.Equal(t, []string{"ok"}, rec.results)
}

func TestUpload_HostFailurePersistsNothing(t *testing.T) {
	host := &fakeHost{uploadErr: errors.New("timeout")}
	rec := &fakeRecorder{}
	svc, store := newTestService(t, host, rec)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadForm{Name: "Ana"}, "x.jpg", strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrUploadFailed)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, []string{"failed"}, rec.results)
	assert.Equal(t, []string{"media"}, rec.failures)
}

func TestUpload_RequiresName(t *testing.T) {
	host := &fakeHost{}
	svc, _ := newTestService(t, host, nil)

	_, err := svc.Upload(context.Background(), UploadForm{Name: "  "}, "x.jpg", strings.NewReader("img"))
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "uploaded_by_name")
	assert.Empty(t, host.uploads)
}

func TestUpload_NoMediaHost(t *testing.T) {
	store := storage.NewPhotoStore(testutil.NewDB(t))
	svc := NewService(store, nil, nil, urls, nil, testutil.Logger())

	_, err := svc.Upload(context.Background(), UploadForm{Name: "Ana"}, "x.jpg", strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Empty(t, svc.PartyPhotos(context.Background()))
}

func TestPartyPhotos_SortedByFilename(t *testing.T) {
	host := &fakeHost{resources: []media.Resource{
		{PublicID: "wedding/party/sam"},
		{PublicID: "wedding/party/alex"},
	}}
	svc, _ := newTestService(t, host, nil)

	got := svc.PartyPhotos(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "alex", got[0].Filename)
	assert.Equal(t, "https://res.example.com/demo/image/upload/c_limit,f_auto,h_600,q_auto:good,w_600/wedding/party/alex", got[0].Thumb)
	assert.Equal(t, "https://res.example.com/demo/image/upload/f_auto,q_auto:best/wedding/party/alex", got[0].Full)
}

func TestPartyPhotos_HostFailureIsEmpty(t *testing.T) {
	svc, _ := newTestService(t, &fakeHost{listErr: errors.New("401")}, nil)
	got := svc.PartyPhotos(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApproved_HidesRejectedAndFormatsTimes(t *testing.T) {
	svc, store := newTestService(t, &fakeHost{}, nil)
	ctx := context.Background()

	at := time.Date(2026, 9, 5, 21, 7, 0, 0, time.UTC)
	visible := &models.PhotoUpload{UploadedByName: "Ana", PhotoURL: "https://x/1.jpg", IsApproved: true, UploadedAt: at}
	hidden := &models.PhotoUpload{UploadedByName: "Ben", PhotoURL: "https://x/2.jpg", IsApproved: true, UploadedAt: at}
	require.NoError(t, store.Create(ctx, visible))
	require.NoError(t, store.Create(ctx, hidden))
	require.NoError(t, svc.SetApproved(ctx, hidden.ID, false))

	svc.now = func() time.Time { return at.Add(3 * time.Hour) }
	got, err := svc.Approved(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].UploadedBy)
	assert.Equal(t, "https://x/1.jpg", got[0].PhotoURL)
	assert.Equal(t, "September 5, 2026 at 9:07 PM", got[0].UploadedAt)
	assert.Equal(t, "3 hours ago", got[0].UploadedAgo)

	assert.ErrorIs(t, svc.SetApproved(ctx, 999, true), storage.ErrNotFound)
}
