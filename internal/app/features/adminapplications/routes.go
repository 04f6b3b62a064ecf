// internal/app/features/adminapplications/routes.go
package adminapplications

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))
		pr.Get("/", h.ServeQueue)
		pr.Get("/{id}", h.ServeDetail)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
		pr.Post("/{id}/request_info", h.HandleRequestInfo)
	})
	return r
}
