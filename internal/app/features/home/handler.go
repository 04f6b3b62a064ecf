// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
	Projects    []models.Project
	ContactOpen bool
}

type Handler struct {
	DB          *mongo.Database
	Projects    *projectstore.Store
	ContactOpen bool
	Log         *zap.Logger
}

// NewHandler constructs the landing-page handler. contactOpen controls
// whether the contact call-to-action is shown (it is off when no
// webhook endpoint is configured).
func NewHandler(db *mongo.Database, contactOpen bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Projects:    projectstore.New(db),
		ContactOpen: contactOpen,
		Log:         logger,
	}
}

// ServeHome renders the landing page with the project catalog.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	projects, err := h.Projects.List(ctx)
	if err != nil {
		h.Log.Warn("home catalog load failed", zap.Error(err))
	}

	data := pageData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Accueil", "/"),
		Projects:    projects,
		ContactOpen: h.ContactOpen,
	}

	templates.Render(w, r, "home", data)
}
