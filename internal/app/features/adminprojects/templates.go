// internal/app/features/adminprojects/templates.go
package adminprojects

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "adminprojects",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
