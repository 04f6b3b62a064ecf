// internal/app/features/signature/routes.go
package signature

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("member"))
		pr.Get("/{id}", h.ServeSignature)
		pr.Post("/{id}/sign", h.HandleSign)
		pr.Post("/{id}/finalize", h.HandleFinalize)
	})
	return r
}
