// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Post("/read_all", h.HandleMarkAllRead)
		pr.Post("/delete_all", h.HandleDeleteAll)
		pr.Post("/{id}/read", h.HandleMarkRead)
		pr.Post("/{id}/delete", h.HandleDelete)
	})
	return r
}
