// internal/app/features/adhesion/steps.go
package adhesion

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	domadhesion "github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadProject resolves the {projectID} route param and renders the
// error page itself when the project is gone. Second return is false
// when a response has already been written.
func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	id := chi.URLParam(r, "projectID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce projet n'existe pas ou plus.")
		} else {
			h.ErrLog.ServerError(w, r, "adhesion project load failed", err)
		}
		return models.Project{}, false
	}
	return *p, true
}

// ServeStep1 renders the first step. A fresh form is prefilled from the
// member's profile; a resubmission (?resubmit=<id>) is prefilled from
// the application being corrected.
func (h *Handler) ServeStep1(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	data := stepData{Project: project, Step: 1}
	data.setBase(r, project)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if resubmit := query.Get(r, "resubmit"); resubmit != "" {
		appID, err := primitive.ObjectIDFromHex(resubmit)
		if err != nil {
			uierrors.RenderNotFound(w, r, "Cette demande n'existe pas.")
			return
		}
		app, err := h.Applications.GetForUser(ctx, appID, userID)
		if err != nil || app.Status != domadhesion.StatusInfoRequested {
			uierrors.RenderForbidden(w, r, "Cette demande ne peut pas être complétée.", "/dashboard")
			return
		}
		data.ResubmitID = resubmit
		data.InfoMessage = app.InfoMessage
		data.PdlPrm = app.PdlPrm
		data.Address = app.Address
		data.Phone = app.Phone
		data.IBAN = app.IBAN
		data.BIC = app.BIC
	} else if u, err := h.Users.GetByID(ctx, userID); err == nil {
		data.PdlPrm = u.PdlPrm
		data.Address = u.Address
		data.Phone = u.Phone
		data.IBAN = u.BankDetails.IBAN
		data.BIC = u.BankDetails.BIC
	}

	templates.Render(w, r, "adhesion_step1", data)
}

// HandleStep1 validates the delivery-point step and advances to the
// banking step, echoing accepted values in hidden fields.
func (h *Handler) HandleStep1(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "adhesion step1 parse failed", err)
		return
	}

	form := readForm(r)
	data := stepData{Project: project, ResubmitID: r.FormValue("resubmit_id")}
	data.setBase(r, project)
	data.fill(form)

	if err := form.Step1.Validate(); err != nil {
		data.Step = 1
		data.setFieldError(err)
		templates.Render(w, r, "adhesion_step1", data)
		return
	}

	data.Step = 2
	templates.Render(w, r, "adhesion_step2", data)
}

// HandleStep2 re-validates step 1, validates the banking step, and
// advances to confirmation.
func (h *Handler) HandleStep2(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "adhesion step2 parse failed", err)
		return
	}

	form := readForm(r)
	data := stepData{Project: project, ResubmitID: r.FormValue("resubmit_id")}
	data.setBase(r, project)
	data.fill(form)

	if err := form.Step1.Validate(); err != nil {
		data.Step = 1
		data.setFieldError(err)
		templates.Render(w, r, "adhesion_step1", data)
		return
	}
	if err := form.Step2.Validate(); err != nil {
		data.Step = 2
		data.setFieldError(err)
		templates.Render(w, r, "adhesion_step2", data)
		return
	}

	data.Step = 3
	templates.Render(w, r, "adhesion_step3", data)
}

// HandleSubmit re-validates the whole draft and submits it. A
// resubmission answers an information request on an existing dossier;
// otherwise a new application is created.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "adhesion submit parse failed", err)
		return
	}

	form := readForm(r)
	data := stepData{Project: project, ResubmitID: r.FormValue("resubmit_id")}
	data.setBase(r, project)
	data.fill(form)

	if err := form.Validate(); err != nil {
		data.Step = 3
		data.setFieldError(err)
		templates.Render(w, r, "adhesion_step3", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if data.ResubmitID != "" {
		appID, err := primitive.ObjectIDFromHex(data.ResubmitID)
		if err != nil {
			uierrors.RenderNotFound(w, r, "Cette demande n'existe pas.")
			return
		}
		if _, err := h.Applications.Resubmit(ctx, appID, userID, form); err != nil {
			if errors.Is(err, applicationstore.ErrBadTransition) {
				uierrors.RenderForbidden(w, r, "Cette demande ne peut plus être complétée.", "/dashboard")
				return
			}
			h.ErrLog.ServerError(w, r, "adhesion resubmit failed", err)
			return
		}
		http.Redirect(w, r, "/dashboard?submitted=1", http.StatusSeeOther)
		return
	}

	_, err := h.Applications.Submit(ctx, userID, project.ID, form)
	if err != nil {
		switch {
		case errors.Is(err, applicationstore.ErrDuplicatePending):
			data.Step = 3
			data.SetError("Vous avez déjà une demande en cours pour ce projet.")
			templates.Render(w, r, "adhesion_step3", data)
		case errors.Is(err, applicationstore.ErrProjectFull):
			data.Step = 3
			data.SetError("Ce projet a atteint son nombre maximum de participants.")
			templates.Render(w, r, "adhesion_step3", data)
		default:
			h.ErrLog.ServerError(w, r, "adhesion submit failed", err)
		}
		return
	}

	h.Log.Info("adhesion submitted",
		zap.String("project", project.ID),
		zap.String("user", userID.Hex()))
	http.Redirect(w, r, "/dashboard?submitted=1", http.StatusSeeOther)
}
