// internal/app/features/consumption/templates.go
package consumption

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "consumption",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
