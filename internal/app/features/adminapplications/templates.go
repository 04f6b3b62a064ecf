// internal/app/features/adminapplications/templates.go
package adminapplications

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "adminapplications",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
