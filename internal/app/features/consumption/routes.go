// internal/app/features/consumption/routes.go
package consumption

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("member"))
		pr.Get("/", h.ServeConsumption)
	})
	return r
}
