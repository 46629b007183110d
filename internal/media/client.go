package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"wedding-site/internal/config"
)

// Folders on the media host
const (
	PartyFolder       = "wedding/party"
	LocationsFolder   = "wedding/locations"
	GuestUploadFolder = "wedding/guest-uploads"
)

var ErrNotConfigured = errors.New("media host credentials not configured")

// Resource is an asset stored on the media host
type Resource struct {
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Version   int64  `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
	SecureURL string `json:"secure_url"`
	CreatedAt string `json:"created_at"`
}

// UploadParams describes where an upload lands
type UploadParams struct {
	Folder    string
	PublicID  string
	Filename  string
	Overwrite bool
}

// Lister lists assets under a public id prefix
type Lister interface {
	List(ctx context.Context, prefix string, max int) ([]Resource, error)
}

// Uploader pushes a file to the media host
type Uploader interface {
	Upload(ctx context.Context, params UploadParams, r io.Reader) (Resource, error)
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type listResponse struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"next_cursor"`
}

// Client talks to the Cloudinary upload and admin APIs
type Client struct {
	http *resty.Client
	cfg  config.MediaConfig
	log  zerolog.Logger
	now  func() time.Time
}

// NewClient creates a media host client
func NewClient(cfg config.MediaConfig, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"+cfg.CloudName).
		SetTimeout(60*time.Second).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		http: httpClient,
		cfg:  cfg,
		log:  log.With().Str("component", "media").Logger(),
		now:  time.Now,
	}
}

// Upload performs a signed upload of one image
func (c *Client) Upload(ctx context.Context, params UploadParams, r io.Reader) (Resource, error) {
	if !c.cfg.Configured() {
		return Resource{}, ErrNotConfigured
	}

	form := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if params.Folder != "" {
		form["folder"] = params.Folder
	}
	if params.PublicID != "" {
		form["public_id"] = params.PublicID
	}
	if params.Overwrite {
		form["overwrite"] = "true"
	}
	form["signature"] = sign(form, c.cfg.APISecret)
	form["api_key"] = c.cfg.APIKey

	filename := params.Filename
	if filename == "" {
		filename = "upload"
	}

	var res Resource
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetFileReader("file", filename, r).
		SetResult(&res).
		SetError(&apiErr).
		Post("/image/upload")
	if err != nil {
		return Resource{}, fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	if resp.IsError() {
		return Resource{}, fmt.Errorf("upload %s rejected (status %d): %s", filename, resp.StatusCode(), apiErr.Error.Message)
	}

	c.log.Debug().Str("public_id", res.PublicID).Int64("bytes", res.Bytes).Msg("Uploaded image")
	return res, nil
}

// List returns up to max images whose public id starts with prefix, in host order
func (c *Client) List(ctx context.Context, prefix string, max int) ([]Resource, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	var out []Resource
	cursor := ""
	for len(out) < max {
		page := max - len(out)
		if page > 500 {
			page = 500
		}

		req := c.http.R().
			SetContext(ctx).
			SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret).
			SetQueryParams(map[string]string{
				"type":        "upload",
				"prefix":      prefix,
				"max_results": strconv.Itoa(page),
			})
		if cursor != "" {
			req.SetQueryParam("next_cursor", cursor)
		}

		var body listResponse
		var apiErr apiError
		resp, err := req.SetResult(&body).SetError(&apiErr).Get("/resources/image/upload")
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("list %s failed (status %d): %s", prefix, resp.StatusCode(), apiErr.Error.Message)
		}

		out = append(out, body.Resources...)
		if body.NextCursor == "" || len(body.Resources) == 0 {
			break
		}
		cursor = body.NextCursor
	}

	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

// sign computes the upload signature: sorted key=value pairs joined by & followed by the secret
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
