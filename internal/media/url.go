package media

import (
	"strings"

	"wedding-site/internal/config"
)

// Transform is a delivery transformation string
type Transform string

const (
	Thumb       Transform = "c_limit,f_auto,h_600,q_auto:good,w_600"
	Full        Transform = "f_auto,q_auto:best"
	Progressive Transform = "f_auto,fl_progressive,q_auto:good"
)

// URLBuilder builds delivery URLs for stored images
type URLBuilder struct {
	base string
}

func NewURLBuilder(cfg config.MediaConfig) URLBuilder {
	return URLBuilder{base: strings.TrimRight(cfg.DeliveryURL, "/") + "/" + cfg.CloudName + "/image/upload"}
}

// URL returns the delivery URL of publicID with transform t applied
func (b URLBuilder) URL(publicID string, t Transform) string {
	if t == "" {
		return b.base + "/" + publicID
	}
	return b.base + "/" + string(t) + "/" + publicID
}
