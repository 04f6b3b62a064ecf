// internal/app/features/adminprojects/routes.go
package adminprojects

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))
		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleUpdate)
		pr.Post("/{id}/delete", h.HandleDelete)
	})
	return r
}
