package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/config"
	"wedding-site/internal/journey"
	"wedding-site/internal/media"
	"wedding-site/internal/metrics"
	"wedding-site/internal/models"
	"wedding-site/internal/photos"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/storage"
	"wedding-site/internal/testutil"
)

type fakeHost struct {
	resources map[string][]media.Resource
	listErr   map[string]error
	uploadErr error
	uploaded  int
}

func (f *fakeHost) List(ctx context.Context, prefix string, max int) ([]media.Resource, error) {
	if err := f.listErr[prefix]; err != nil {
		return nil, err
	}
	return f.resources[prefix], nil
}

func (f *fakeHost) Upload(ctx context.Context, p media.UploadParams, r io.Reader) (media.Resource, error) {
	if f.uploadErr != nil {
		return media.Resource{}, f.uploadErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.uploaded++
	id := p.Folder + "/" + p.PublicID
	return media.Resource{PublicID: id, SecureURL: "https://res.example.com/demo/image/upload/" + id + ".jpg"}, nil
}

type env struct {
	app       *fiber.App
	rsvps     *storage.RSVPStore
	photos    *storage.PhotoStore
	party     *storage.PartyStore
	locations *storage.LocationStore
	host      *fakeHost
	metrics   *metrics.Metrics
}

const (
	testSecret   = "test-secret"
	testPassword = "hunter2"
)

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.Logger()

	e := &env{
		rsvps:     storage.NewRSVPStore(db),
		photos:    storage.NewPhotoStore(db),
		party:     storage.NewPartyStore(db),
		locations: storage.NewLocationStore(db),
		host:      &fakeHost{resources: map[string][]media.Resource{}, listErr: map[string]error{}},
		metrics:   metrics.New(),
	}
	urls := media.NewURLBuilder(config.MediaConfig{CloudName: "demo", DeliveryURL: "https://res.example.com"})

	h, err := New(Deps{
		Wedding:       config.WeddingConfig{BrideName: "Caitlin", GroomName: "Dennis", Date: "September 5th, 2026", Venue: "The Aviary"},
		Admin:         config.AdminConfig{JWTSecret: testSecret, Password: testPassword, TokenTTL: time.Hour},
		MaxUploadSize: 1 << 20,
		RSVP:          rsvp.NewService(e.rsvps, nil, e.metrics, log),
		Photos:        photos.NewService(e.photos, e.host, e.host, urls, e.metrics, log),
		Journey:       journey.NewService(e.locations, e.host, urls, log),
		RSVPs:         e.rsvps,
		Party:         e.party,
		Locations:     e.locations,
		Metrics:       e.metrics,
		Log:           log,
	})
	require.NoError(t, err)
	e.app = NewApp(h)
	return e
}

func (e *env) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func rsvpPost(values url.Values, accept string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/rsvp/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req
}

func validRSVP() url.Values {
	return url.Values{
		"first_name":                {"Ana"},
		"last_name":                 {"Diaz"},
		"email":                     {"ana@example.com"},
		"phone":                     {"555-1111"},
		"attendance":                {"yes"},
		"number_of_guests":          {"2"},
		"guest_0_first_name":        {"Ben"},
		"guest_0_last_name":         {"Diaz"},
		"guest_0_use_primary_phone": {"true"},
	}
}

func TestPagesRender(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/", "/our-story/", "/party/", "/our-journey/", "/details/", "/registry/", "/rsvp/", "/photos/upload/", "/photos/gallery/"} {
		resp, body := e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, "Caitlin &amp; Dennis", path)
	}
}

func TestSubmitRSVP_HTML(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(t, rsvpPost(validRSVP(), ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Thank you for your RSVP!")
	assert.NotContains(t, body, `value="Ana"`, "form is reset after success")

	all, err := e.rsvps.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Guests, 1)
}

func TestSubmitRSVP_ValidationErrorKeepsValues(t *testing.T) {
	e := newEnv(t)
	values := validRSVP()
	values.Set("phone", "")

	resp, body := e.do(t, rsvpPost(values, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, `value="Ana"`)

	all, err := e.rsvps.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitRSVP_JSON(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(t, rsvpPost(validRSVP(), "application/json"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"ok":true`)

	values := validRSVP()
	values.Set("number_of_guests", "12")
	resp, body = e.do(t, rsvpPost(values, "application/json"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Contains(t, out.Errors, "number_of_guests")
}

func TestLocationsAPI_FailureIsolatedPerLocation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.locations.Create(ctx, &models.Location{LocationName: "WVU", City: "Morgantown", Order: 1, IsActive: true, PhotoBaseName: "wvu"}))
	require.NoError(t, e.locations.Create(ctx, &models.Location{LocationName: "Aviary", City: "Pittsburgh", Order: 2, IsActive: true, PhotoBaseName: "aviary"}))
	e.host.listErr["wedding/locations/wvu"] = errors.New("rate limited")
	e.host.resources["wedding/locations/aviary"] = []media.Resource{{PublicID: "wedding/locations/aviary_1"}}

	resp, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/locations/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Locations []journey.Location `json:"locations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Locations, 2)
	assert.Empty(t, out.Locations[0].Photos)
	assert.Len(t, out.Locations[1].Photos, 1)
	assert.Contains(t, body, `"photos":[]`)
}

func TestPartyPhotosAPI_HostFailure(t *testing.T) {
	e := newEnv(t)
	e.host.listErr["wedding/party/"] = errors.New("unauthorized")

	resp, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/party-photos/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"photos":[]}`, body)
}

func multipartUpload(t *testing.T, name string, file []byte, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("uploaded_by_name", name))
	require.NoError(t, w.WriteField("caption", "Cake!"))
	if file != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="photo"; filename="cake.jpg"`)
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/photos/upload/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadPhoto(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(t, multipartUpload(t, "Ana", []byte("jpeg"), "image/jpeg"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Thank you for sharing your photo!")

	resp, body = e.do(t, httptest.NewRequest(http.MethodGet, "/api/photos/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Photos []map[string]any `json:"photos"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Photos, 1)
	p := out.Photos[0]
	for _, key := range []string{"id", "uploaded_by", "photo_url", "caption", "uploaded_at"} {
		assert.Contains(t, p, key)
	}
	assert.NotContains(t, p, "url")
	assert.Equal(t, "Ana", p["uploaded_by"])
	assert.Equal(t, "Cake!", p["caption"])
	assert.Contains(t, p["photo_url"], "https://res.example.com/demo/image/upload/wedding/guest-uploads/")
}

func TestUploadPhoto_MissingFile(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, multipartUpload(t, "Ana", nil, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "This field is required.")
}

func TestUploadPhoto_PassesAnyFileToHost(t *testing.T) {
	e := newEnv(t)

	resp, _ := e.do(t, multipartUpload(t, "Ana", []byte("raw bytes"), "application/octet-stream"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	large := bytes.Repeat([]byte{0xff}, 1<<20+10)
	resp, _ = e.do(t, multipartUpload(t, "Ben", large, "image/jpeg"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, e.host.uploaded)
	all, err := e.photos.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUploadPhoto_HostFailure(t *testing.T) {
	e := newEnv(t)
	e.host.uploadErr = errors.New("503")

	resp, body := e.do(t, multipartUpload(t, "Ana", []byte("jpeg"), "image/jpeg"))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Please try again.")

	all, err := e.photos.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func adminToken(t *testing.T, e *env) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/api/login", strings.NewReader(`{"password":"`+testPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := e.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out.Token
}

func authed(method, path, token, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestAdmin_RejectsBadCredentials(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/login", strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := e.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = e.do(t, httptest.NewRequest(http.MethodGet, "/admin/api/rsvps", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = e.do(t, authed(http.MethodGet, "/admin/api/rsvps", "garbage", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_ModeratePhotos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := &models.PhotoUpload{UploadedByName: "Ana", PhotoURL: "https://x/1.jpg", IsApproved: true}
	require.NoError(t, e.photos.Create(ctx, p))
	token := adminToken(t, e)

	resp, _ := e.do(t, authed(http.MethodPost, "/admin/api/photos/"+itoa(p.ID)+"/reject", token, ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/photos/", nil))
	assert.JSONEq(t, `{"photos":[]}`, body)

	resp, _ = e.do(t, authed(http.MethodPost, "/admin/api/photos/9999/approve", token, ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdmin_RSVPsAndParty(t *testing.T) {
	e := newEnv(t)
	token := adminToken(t, e)

	e.do(t, rsvpPost(validRSVP(), ""))
	resp, body := e.do(t, authed(http.MethodGet, "/admin/api/rsvps", token, ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"first_name":"Ben"`)

	all, err := e.rsvps.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	resp, _ = e.do(t, authed(http.MethodDelete, "/admin/api/rsvps/"+itoa(all[0].ID), token, ""))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = e.do(t, authed(http.MethodPost, "/admin/api/party", token, `{"name":"Jo","role":"maid_of_honor","side":"bride"}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = e.do(t, authed(http.MethodPost, "/admin/api/party", token, `{"name":"Al","role":"usher","side":"bride"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = e.do(t, authed(http.MethodGet, "/admin/api/party?side=bride", token, ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"name":"Jo"`)

	resp, body = e.do(t, httptest.NewRequest(http.MethodGet, "/party/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Maid of Honor")
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)

	resp, _ := e.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	e.do(t, rsvpPost(validRSVP(), ""))
	resp, body := e.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `wedding_rsvps_submitted_total{attendance="yes"} 1`)
	assert.Contains(t, body, `wedding_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
