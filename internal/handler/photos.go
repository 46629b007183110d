package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"wedding-site/internal/photos"
	"wedding-site/internal/validation"
)

const (
	photoThanks      = "Thank you for sharing your photo!"
	photoUploadRetry = "Sorry, we couldn't upload your photo. Please try again."
)

func (h *Handler) PhotoUploadForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "photo_upload", view{Title: "Share Photos"})
}

// UploadPhoto accepts one guest photo as multipart field "photo"
func (h *Handler) UploadPhoto(c *fiber.Ctx) error {
	form := photos.UploadForm{
		Name:    c.FormValue("uploaded_by_name"),
		Caption: c.FormValue("caption"),
	}

	fail := func(status int, verrs validation.Errors, msg string) error {
		if wantsJSON(c) {
			body := fiber.Map{"error": msg}
			if verrs != nil {
				body["errors"] = verrs
			}
			return c.Status(status).JSON(body)
		}
		v := view{Title: "Share Photos", Form: postedValues(c), Errors: verrs, Error: msg}
		return h.render(c, status, "photo_upload", v)
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return fail(fiber.StatusBadRequest, validation.Errors{"photo": "This field is required."}, "Please correct the errors below.")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	p, err := h.photos.Upload(c.UserContext(), form, fh.Filename, f)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return fail(fiber.StatusBadRequest, verrs, "Please correct the errors below.")
	case errors.Is(err, photos.ErrUploadFailed):
		return fail(fiber.StatusBadGateway, nil, photoUploadRetry)
	case err != nil:
		return err
	}

	if wantsJSON(c) {
		return c.JSON(fiber.Map{"ok": true, "id": p.ID, "photo_url": p.PhotoURL})
	}
	return h.render(c, fiber.StatusOK, "photo_upload", view{Title: "Share Photos", Success: photoThanks})
}
