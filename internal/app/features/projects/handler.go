// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/tiles"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type listData struct {
	viewdata.BaseVM
	Projects []models.Project
}

type detailData struct {
	viewdata.BaseVM
	Project models.Project

	// Map widget inputs
	TileTemplate string
	PreviewTile  string
}

type Handler struct {
	DB       *mongo.Database
	Projects *projectstore.Store
	Tiles    tiles.Provider
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, tileProvider tiles.Provider, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Projects: projectstore.New(db),
		Tiles:    tileProvider,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// ServeList renders the public project catalog.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	projects, err := h.Projects.List(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "project list failed", err)
		return
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Nos projets", "/"),
		Projects: projects,
	}
	templates.Render(w, r, "project_list", data)
}

// ServeDetail renders one project page with the location map.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	project, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce projet n'existe pas ou plus.")
			return
		}
		h.ErrLog.ServerError(w, r, "project load failed", err)
		return
	}

	data := detailData{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, project.Name, "/projects"),
		Project:      *project,
		TileTemplate: h.Tiles.URLTemplate(),
		PreviewTile:  h.Tiles.TileURL(project.Latitude, project.Longitude, 12),
	}
	templates.Render(w, r, "project_detail", data)
}
