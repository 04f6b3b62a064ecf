// internal/app/features/adminexport/routes.go
package adminexport

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))
		pr.Get("/users.csv", h.ServeUsers)
		pr.Get("/applications.csv", h.ServeApplications)
	})
	return r
}
