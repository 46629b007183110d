package handler

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"wedding-site/internal/config"
	"wedding-site/internal/journey"
	"wedding-site/internal/models"
	"wedding-site/internal/photos"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

const storyText = `We met in undergrad as classmates in the same major, stayed friends, and finally started dating senior year. After graduation, we moved to Pittsburgh and began building a life we love: exploring neighborhoods, taking weekend trips and finding "our" spots around the city. At home, we cook together and unwind with romantic comedies. From lecture halls to city streets, we're still choosing each other, and can't wait to celebrate with you.`

// view is the data every page template renders from
type view struct {
	Title   string
	Wedding config.WeddingConfig
	Success string
	Error   string

	Story     string
	Bride     []models.WeddingPartyMember
	Groom     []models.WeddingPartyMember
	Locations []journey.Location
	Photos    []photos.Photo

	Form       map[string]string
	Errors     validation.Errors
	MaxGuests  int
	GuestSlots []int
}

// fieldView is one labelled form input
type fieldView struct {
	Name, Label, Type, Value, Error string
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"field": func(name, label, typ string, v view) fieldView {
		return fieldView{Name: name, Label: label, Type: typ, Value: v.Form[name], Error: v.Errors[name]}
	},
}

// templates holds one parsed set per page, each layered on base.html
type templates map[string]*template.Template

func loadTemplates() (templates, error) {
	pages := []string{
		"home", "our_story", "party", "our_journey", "details",
		"registry", "rsvp", "photo_upload", "gallery",
	}

	out := make(templates, len(pages))
	for _, p := range pages {
		t, err := template.New(p).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", p, err)
		}
		out[p] = t
	}
	return out, nil
}

func (h *Handler) render(c *fiber.Ctx, status int, page string, v view) error {
	t, ok := h.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	v.Wedding = h.wedding

	c.Status(status)
	c.Type("html", "utf-8")
	return t.ExecuteTemplate(c, "base", v)
}

func (h *Handler) Home(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "home", view{Title: "Home"})
}

func (h *Handler) OurStory(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "our_story", view{Title: "Our Story", Story: storyText})
}

func (h *Handler) Party(c *fiber.Ctx) error {
	members, err := h.party.ListActive(c.UserContext(), "")
	if err != nil {
		return err
	}

	v := view{Title: "Wedding Party"}
	for _, m := range members {
		if m.Side == models.SideBride {
			v.Bride = append(v.Bride, m)
		} else {
			v.Groom = append(v.Groom, m)
		}
	}
	return h.render(c, fiber.StatusOK, "party", v)
}

func (h *Handler) OurJourney(c *fiber.Ctx) error {
	locs, err := h.journey.Locations(c.UserContext())
	if err != nil {
		return err
	}
	return h.render(c, fiber.StatusOK, "our_journey", view{Title: "Our Journey", Locations: locs})
}

func (h *Handler) Details(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "details", view{Title: "Event Details"})
}

func (h *Handler) Registry(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "registry", view{Title: "Registry"})
}

func (h *Handler) Gallery(c *fiber.Ctx) error {
	list, err := h.photos.Approved(c.UserContext())
	if err != nil {
		return err
	}
	return h.render(c, fiber.StatusOK, "gallery", view{Title: "Photo Gallery", Photos: list})
}

func rsvpView() view {
	slots := make([]int, rsvp.MaxGuests-1)
	for i := range slots {
		slots[i] = i
	}
	return view{Title: "RSVP", MaxGuests: rsvp.MaxGuests, GuestSlots: slots}
}
