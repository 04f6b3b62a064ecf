// Package tiles abstracts the map-tile provider used on project pages.
// The provider is an external collaborator; this side only produces the
// URLs the client-side map widget loads tiles from.
package tiles

import (
	"fmt"
	"math"
	"strings"
)

// Provider yields tile URL templates and per-coordinate tile URLs.
type Provider interface {
	// URLTemplate returns the {z}/{x}/{y} template handed to the map widget.
	URLTemplate() string
	// TileURL returns the concrete tile containing the coordinate at
	// the given zoom, for static previews and link prefetching.
	TileURL(lat, lon float64, zoom int) string
}

// OSM serves tiles from an OpenStreetMap-compatible server.
type OSM struct {
	// Template like "https://tile.openstreetmap.org/{z}/{x}/{y}.png".
	Template string
}

// NewOSM returns a provider for the given template; empty defaults to
// the public OSM tile server.
func NewOSM(template string) *OSM {
	if template == "" {
		template = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	return &OSM{Template: template}
}

func (p *OSM) URLTemplate() string { return p.Template }

func (p *OSM) TileURL(lat, lon float64, zoom int) string {
	x, y := tileXY(lat, lon, zoom)
	url := p.Template
	url = strings.ReplaceAll(url, "{z}", fmt.Sprintf("%d", zoom))
	url = strings.ReplaceAll(url, "{x}", fmt.Sprintf("%d", x))
	url = strings.ReplaceAll(url, "{y}", fmt.Sprintf("%d", y))
	return url
}

// tileXY converts WGS84 coordinates to slippy-map tile numbers.
func tileXY(lat, lon float64, zoom int) (x, y int) {
	n := math.Exp2(float64(zoom))
	x = int((lon + 180.0) / 360.0 * n)
	latRad := lat * math.Pi / 180.0
	y = int((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
