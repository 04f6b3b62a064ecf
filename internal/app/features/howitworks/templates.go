// internal/app/features/howitworks/templates.go
package howitworks

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "how_it_works",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
