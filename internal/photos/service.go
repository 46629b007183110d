package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wedding-site/internal/media"
	"wedding-site/internal/models"
	"wedding-site/internal/validation"
)

const (
	maxPartyPhotos   = 500
	uploadedAtLayout = "January 2, 2006 at 3:04 PM"
)

// ErrUploadFailed is returned when the media host did not accept a guest photo
var ErrUploadFailed = errors.New("photo upload failed")

// Store is the persistence the photo service needs
type Store interface {
	Create(ctx context.Context, p *models.PhotoUpload) error
	List(ctx context.Context) ([]models.PhotoUpload, error)
	ListApproved(ctx context.Context) ([]models.PhotoUpload, error)
	SetApproved(ctx context.Context, id uint, approved bool) error
}

// Recorder counts upload outcomes
type Recorder interface {
	PhotoUpload(result string)
	SideEffectFailed(effect string)
}

// UploadForm is the metadata posted with a guest photo
type UploadForm struct {
	Name    string `form:"uploaded_by_name" validate:"required,max=200"`
	Caption string `form:"caption"`
}

// PartyPhoto is one wedding party gallery entry
type PartyPhoto struct {
	Filename string `json:"filename"`
	Thumb    string `json:"thumb"`
	Full     string `json:"full"`
}

// Photo is one approved guest photo
type Photo struct {
	ID          uint   `json:"id"`
	PhotoURL    string `json:"photo_url"`
	UploadedBy  string `json:"uploaded_by"`
	Caption     string `json:"caption"`
	UploadedAt  string `json:"uploaded_at"`
	UploadedAgo string `json:"uploaded_ago"`
}

type Service struct {
	store    Store
	uploader media.Uploader
	lister   media.Lister
	urls     media.URLBuilder
	rec      Recorder
	validate *validation.Validator
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates the photo service. uploader and lister may be nil when no media host is configured.
func NewService(store Store, uploader media.Uploader, lister media.Lister, urls media.URLBuilder, rec Recorder, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		uploader: uploader,
		lister:   lister,
		urls:     urls,
		rec:      rec,
		validate: validation.New(),
		log:      log.With().Str("component", "photos").Logger(),
		now:      time.Now,
	}
}

// Upload validates form, pushes the image to the media host and records it as approved.
// Nothing is stored when the host rejects the image.
func (s *Service) Upload(ctx context.Context, form UploadForm, filename string, r io.Reader) (*models.PhotoUpload, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Caption = strings.TrimSpace(form.Caption)
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}

	if s.uploader == nil {
		s.log.Error().Msg("Photo upload attempted without a media host")
		s.record("failed")
		return nil, ErrUploadFailed
	}

	res, err := s.uploader.Upload(ctx, media.UploadParams{
		Folder:   media.GuestUploadFolder,
		PublicID: uuid.NewString(),
		Filename: path.Base(filename),
	}, r)
	if err != nil {
		s.log.Error().Err(err).Str("uploaded_by", form.Name).Msg("Failed to upload photo")
		s.record("failed")
		if s.rec != nil {
			s.rec.SideEffectFailed("media")
		}
		return nil, ErrUploadFailed
	}

	p := &models.PhotoUpload{
		UploadedByName: form.Name,
		PhotoURL:       res.SecureURL,
		Caption:        form.Caption,
		IsApproved:     true,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save photo upload: %w", err)
	}

	s.log.Info().Uint("photo_id", p.ID).Str("public_id", res.PublicID).Msg("Photo uploaded")
	s.record("ok")
	return p, nil
}

func (s *Service) record(result string) {
	if s.rec != nil {
		s.rec.PhotoUpload(result)
	}
}

// PartyPhotos lists the wedding party gallery sorted by filename.
// A media host failure yields an empty gallery.
func (s *Service) PartyPhotos(ctx context.Context) []PartyPhoto {
	out := []PartyPhoto{}
	if s.lister == nil {
		return out
	}

	res, err := s.lister.List(ctx, media.PartyFolder+"/", maxPartyPhotos)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to fetch party photos")
		return out
	}

	for _, r := range res {
		out = append(out, PartyPhoto{
			Filename: path.Base(r.PublicID),
			Thumb:    s.urls.URL(r.PublicID, media.Thumb),
			Full:     s.urls.URL(r.PublicID, media.Full),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

// Approved returns the public gallery, newest first
func (s *Service) Approved(ctx context.Context) ([]Photo, error) {
	uploads, err := s.store.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Photo, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, Photo{
			ID:          u.ID,
			PhotoURL:    u.PhotoURL,
			UploadedBy:  u.UploadedByName,
			Caption:     u.Caption,
			UploadedAt:  u.UploadedAt.Format(uploadedAtLayout),
			UploadedAgo: humanize.RelTime(u.UploadedAt, now, "ago", "from now"),
		})
	}
	return out, nil
}

// All returns every upload for moderation
func (s *Service) All(ctx context.Context) ([]models.PhotoUpload, error) {
	return s.store.List(ctx)
}

// SetApproved shows or hides an upload in the public gallery
func (s *Service) SetApproved(ctx context.Context, id uint, approved bool) error {
	if err := s.store.SetApproved(ctx, id, approved); err != nil {
		return err
	}
	s.log.Info().Uint("photo_id", id).Bool("approved", approved).Msg("Photo moderation updated")
	return nil
}
