package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wedding-site/internal/rsvp"
	"wedding-site/internal/validation"
)

const rsvpThanks = "Thank you for your RSVP! We can't wait to celebrate with you!"

// RSVPForm shows an empty RSVP form
func (h *Handler) RSVPForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "rsvp", rsvpView())
}

// SubmitRSVP stores a posted RSVP.
// Invalid posts are shown again with per field errors and the posted values.
func (h *Handler) SubmitRSVP(c *fiber.Ctx) error {
	sub := rsvp.ParseSubmission(func(key string) string { return c.FormValue(key) })

	r, err := h.rsvp.Submit(c.UserContext(), sub)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		if wantsJSON(c) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		}
		v := rsvpView()
		v.Form = postedValues(c)
		v.Errors = verrs
		v.Error = "Please correct the errors below."
		return h.render(c, fiber.StatusBadRequest, "rsvp", v)
	case err != nil:
		return err
	}

	if wantsJSON(c) {
		return c.JSON(fiber.Map{"ok": true, "id": r.ID})
	}
	v := rsvpView()
	v.Success = rsvpThanks
	return h.render(c, fiber.StatusOK, "rsvp", v)
}

// postedValues copies the url encoded or multipart form into a map
func postedValues(c *fiber.Ctx) map[string]string {
	out := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = string(v)
	})
	if form, err := c.MultipartForm(); err == nil {
		for k, vs := range form.Value {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
	}
	return out
}
