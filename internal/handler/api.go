package handler

import (
	"github.com/gofiber/fiber/v2"
)

// LocationsAPI serves the journey map data
func (h *Handler) LocationsAPI(c *fiber.Ctx) error {
	locs, err := h.journey.Locations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"locations": locs})
}

// PartyPhotosAPI serves the wedding party gallery; host failures give an empty list
func (h *Handler) PartyPhotosAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"photos": h.photos.PartyPhotos(c.UserContext())})
}

// PhotosAPI serves approved guest photos, newest first
func (h *Handler) PhotosAPI(c *fiber.Ctx) error {
	list, err := h.photos.Approved(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"photos": list})
}
