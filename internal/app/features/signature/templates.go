// internal/app/features/signature/templates.go
package signature

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "signature",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
