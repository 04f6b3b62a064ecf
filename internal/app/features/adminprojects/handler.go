// internal/app/features/adminprojects/handler.go
package adminprojects

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/formutil"
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

type formData struct {
	formutil.Base
	Project models.Project
	IsNew   bool
}

// Handler is the admin project catalog console.
type Handler struct {
	DB       *mongo.Database
	Projects *projectstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Projects: projectstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

// ServeList renders the catalog management page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	projects, err := h.Projects.List(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin project list failed", err)
		return
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Catalogue des projets", "/"),
		Projects: projects,
	}
	templates.Render(w, r, "admin_projects", data)
}

// ServeNew renders the empty project form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := formData{IsNew: true}
	formutil.SetBase(&data.Base, r, "Nouveau projet", "/admin/projects")
	templates.Render(w, r, "admin_project_form", data)
}

// readProject collects the form fields into a Project. Numeric fields
// parse leniently: an empty or malformed value stays zero.
func readProject(r *http.Request) models.Project {
	num := func(name string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(r.FormValue(name)), 64)
		return v
	}
	n, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("max_participants")))

	return models.Project{
		ID:                    strings.TrimSpace(r.FormValue("id")),
		Name:                  r.FormValue("name"),
		Location:              r.FormValue("location"),
		Description:           strings.TrimSpace(r.FormValue("description")),
		PowerKWC:              num("power_kwc"),
		AnnualProductionMWH:   num("annual_production_mwh"),
		MaxParticipants:       n,
		EligibilityDistanceKM: num("eligibility_distance_km"),
		ConsumerTariff:        num("consumer_tariff"),
		Latitude:              num("latitude"),
		Longitude:             num("longitude"),
		ImageURL:              strings.TrimSpace(r.FormValue("image_url")),
	}
}

// HandleCreate inserts a new catalog entry.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "admin project parse failed", err)
		return
	}

	p := readProject(r)

	reRender := func(msg string) {
		data := formData{Project: p, IsNew: true}
		formutil.SetBase(&data.Base, r, "Nouveau projet", "/admin/projects")
		data.SetError(msg)
		templates.Render(w, r, "admin_project_form", data)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Projects.Create(ctx, p); err != nil {
		if errors.Is(err, projectstore.ErrDuplicateID) {
			reRender("Un projet avec cet identifiant existe déjà.")
			return
		}
		// Create validates the slug and name with user-safe errors.
		reRender("Identifiant ou nom invalide : l'identifiant doit être un slug en minuscules et le nom est obligatoire.")
		return
	}

	h.Log.Info("project created", zap.String("project", p.ID))
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// ServeEdit renders the form prefilled with an existing project.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce projet n'existe pas.")
			return
		}
		h.ErrLog.ServerError(w, r, "admin project load failed", err)
		return
	}

	data := formData{Project: *p}
	formutil.SetBase(&data.Base, r, "Modifier "+p.Name, "/admin/projects")
	templates.Render(w, r, "admin_project_form", data)
}

// HandleUpdate saves the edited project.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "admin project parse failed", err)
		return
	}

	p := readProject(r)
	p.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Projects.UpdateByID(ctx, id, projectstore.Update{
		Name:                  p.Name,
		Location:              p.Location,
		Description:           p.Description,
		PowerKWC:              p.PowerKWC,
		AnnualProductionMWH:   p.AnnualProductionMWH,
		MaxParticipants:       p.MaxParticipants,
		EligibilityDistanceKM: p.EligibilityDistanceKM,
		ConsumerTariff:        p.ConsumerTariff,
		Latitude:              p.Latitude,
		Longitude:             p.Longitude,
		ImageURL:              p.ImageURL,
	})
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce projet n'existe pas.")
			return
		}
		data := formData{Project: p}
		formutil.SetBase(&data.Base, r, "Modifier "+p.Name, "/admin/projects")
		data.SetError("Le nom du projet est obligatoire.")
		templates.Render(w, r, "admin_project_form", data)
		return
	}

	h.Log.Info("project updated", zap.String("project", id))
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// HandleDelete removes a project from the catalog. Existing dossiers
// keep their denormalized project name.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Projects.Delete(ctx, id); err != nil {
		h.ErrLog.ServerError(w, r, "admin project delete failed", err)
		return
	}

	h.Log.Info("project deleted", zap.String("project", id))
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}
