package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"wedding-site/internal/config"
	"wedding-site/internal/journey"
	"wedding-site/internal/metrics"
	"wedding-site/internal/models"
	"wedding-site/internal/photos"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/storage"
)

// RSVPService accepts RSVP submissions
type RSVPService interface {
	Submit(ctx context.Context, sub rsvp.Submission) (*models.RSVP, error)
}

// PhotoService handles guest photos and gallery projections
type PhotoService interface {
	Upload(ctx context.Context, form photos.UploadForm, filename string, r io.Reader) (*models.PhotoUpload, error)
	PartyPhotos(ctx context.Context) []photos.PartyPhoto
	Approved(ctx context.Context) ([]photos.Photo, error)
	All(ctx context.Context) ([]models.PhotoUpload, error)
	SetApproved(ctx context.Context, id uint, approved bool) error
}

// JourneyService projects locations for the map
type JourneyService interface {
	Locations(ctx context.Context) ([]journey.Location, error)
}

// Deps are the services the web surface is built from
type Deps struct {
	Wedding       config.WeddingConfig
	Admin         config.AdminConfig
	MaxUploadSize int64

	RSVP      RSVPService
	Photos    PhotoService
	Journey   JourneyService
	RSVPs     storage.RSVPRepository
	Party     storage.PartyRepository
	Locations storage.LocationRepository

	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

// Handler serves the site pages and APIs
type Handler struct {
	wedding       config.WeddingConfig
	admin         config.AdminConfig
	maxUploadSize int64

	rsvp      RSVPService
	photos    PhotoService
	journey   JourneyService
	rsvps     storage.RSVPRepository
	party     storage.PartyRepository
	locations storage.LocationRepository

	metrics   *metrics.Metrics
	templates templates
	log       zerolog.Logger
}

// New creates the handler and parses the page templates
func New(d Deps) (*Handler, error) {
	t, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		wedding:       d.Wedding,
		admin:         d.Admin,
		maxUploadSize: d.MaxUploadSize,
		rsvp:          d.RSVP,
		photos:        d.Photos,
		journey:       d.Journey,
		rsvps:         d.RSVPs,
		party:         d.Party,
		locations:     d.Locations,
		metrics:       d.Metrics,
		templates:     t,
		log:           d.Log.With().Str("component", "http").Logger(),
	}, nil
}

// NewApp builds the fiber application with every route registered
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "wedding-site",
		DisableStartupMessage: true,
		BodyLimit:             int(h.maxUploadSize) + 1<<20,
		ErrorHandler:          h.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger(h.log))
	app.Use(observe(h.metrics))

	h.Routes(app)
	return app
}

// Routes registers all pages and APIs on app
func (h *Handler) Routes(app *fiber.App) {
	app.Get("/", h.Home)
	app.Get("/our-story/", h.OurStory)
	app.Get("/party/", h.Party)
	app.Get("/our-journey/", h.OurJourney)
	app.Get("/details/", h.Details)
	app.Get("/registry/", h.Registry)
	app.Get("/rsvp/", h.RSVPForm)
	app.Post("/rsvp/", h.SubmitRSVP)
	app.Get("/photos/upload/", h.PhotoUploadForm)
	app.Post("/photos/upload/", h.UploadPhoto)
	app.Get("/photos/gallery/", h.Gallery)

	api := app.Group("/api")
	api.Get("/locations/", h.LocationsAPI)
	api.Get("/party-photos/", h.PartyPhotosAPI)
	api.Get("/photos/", h.PhotosAPI)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}

	if h.admin.JWTSecret != "" && h.admin.Password != "" {
		h.adminRoutes(app.Group("/admin/api"))
	} else {
		h.log.Warn().Msg("Admin API disabled: ADMIN_JWT_SECRET or ADMIN_PASSWORD not set")
	}
}

func (h *Handler) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")
	}

	if wantsJSON(c) {
		msg := "internal server error"
		if fe != nil {
			msg = fe.Message
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	return c.Status(code).SendString(utils.StatusMessage(code))
}
