package handler

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"wedding-site/internal/models"
	"wedding-site/internal/storage"
)

const adminSubject = "admin"

func (h *Handler) adminRoutes(admin fiber.Router) {
	admin.Post("/login", h.AdminLogin)

	protected := admin.Group("", h.adminProtected())
	protected.Get("/rsvps", h.AdminListRSVPs)
	protected.Delete("/rsvps/:id", h.AdminDeleteRSVP)
	protected.Get("/photos", h.AdminListPhotos)
	protected.Post("/photos/:id/approve", h.AdminSetApproved(true))
	protected.Post("/photos/:id/reject", h.AdminSetApproved(false))
	protected.Get("/party", h.AdminListParty)
	protected.Post("/party", h.AdminCreatePartyMember)
	protected.Get("/locations", h.AdminListLocations)
}

// AdminLogin exchanges the admin password for a bearer token
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var body struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(h.admin.Password)) != 1 {
		h.log.Warn().Str("ip", c.IP()).Msg("Admin login failed")
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	exp := time.Now().Add(h.admin.TokenTTL)
	token, err := h.signAdminToken(exp)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	return c.JSON(fiber.Map{"token": token, "expires_at": exp.UTC().Format(time.RFC3339)})
}

func (h *Handler) signAdminToken(exp time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	return token.SignedString([]byte(h.admin.JWTSecret))
}

// adminProtected rejects requests without a valid admin bearer token
func (h *Handler) adminProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(h.admin.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(adminSubject))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("admin", claims)
		return c.Next()
	}
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return err
}

func (h *Handler) AdminListRSVPs(c *fiber.Ctx) error {
	list, err := h.rsvps.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rsvps": list})
}

func (h *Handler) AdminDeleteRSVP(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.rsvps.Delete(c.UserContext(), id); err != nil {
		return notFound(err)
	}
	h.log.Info().Uint("rsvp_id", id).Msg("RSVP deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) AdminListPhotos(c *fiber.Ctx) error {
	list, err := h.photos.All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"photos": list})
}

// AdminSetApproved shows or hides a guest photo in the public gallery
func (h *Handler) AdminSetApproved(approved bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := h.photos.SetApproved(c.UserContext(), id, approved); err != nil {
			return notFound(err)
		}
		return c.JSON(fiber.Map{"id": id, "is_approved": approved})
	}
}

func (h *Handler) AdminListParty(c *fiber.Ctx) error {
	side := models.Side(c.Query("side"))
	if side != "" && !side.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid side")
	}
	list, err := h.party.ListActive(c.UserContext(), side)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"party": list})
}

func (h *Handler) AdminCreatePartyMember(c *fiber.Ctx) error {
	m := models.WeddingPartyMember{IsActive: true}
	if err := c.BodyParser(&m); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	m.ID = 0
	if strings.TrimSpace(m.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	if err := h.party.Create(c.UserContext(), &m); err != nil {
		if errors.Is(err, storage.ErrInvalid) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handler) AdminListLocations(c *fiber.Ctx) error {
	list, err := h.locations.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"locations": list})
}
