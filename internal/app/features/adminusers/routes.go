// internal/app/features/adminusers/routes.go
package adminusers

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))
		pr.Get("/", h.ServeList)
		pr.Post("/{id}/disable", h.HandleDisable)
		pr.Post("/{id}/enable", h.HandleEnable)
	})
	return r
}
