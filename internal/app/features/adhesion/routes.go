// internal/app/features/adhesion/routes.go
package adhesion

import (
	"github.com/go-chi/chi/v5"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
)

// Routes mounts the adhesion workflow. Members only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("member"))

		pr.Get("/{projectID}", h.ServeStep1)
		pr.Post("/{projectID}/step1", h.HandleStep1)
		pr.Post("/{projectID}/step2", h.HandleStep2)
		pr.Post("/{projectID}/submit", h.HandleSubmit)
	})

	return r
}
