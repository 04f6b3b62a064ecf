// internal/app/features/signature/handler.go
package signature

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/formutil"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	formutil.Base
	App models.Application

	ContractSigned bool
	SepaSigned     bool
	ReadyToFinish  bool
}

// Handler serves the electronic signature step: the adhesion contract
// and the SEPA mandate, each signed on its own surface, then finalized
// together.
type Handler struct {
	Applications *applicationstore.Store
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Applications: applicationstore.New(db, logger),
		ErrLog:       errLog,
		Log:          logger,
	}
}

// load resolves the {id} route param to the caller's own application
// awaiting signature. Renders the error page itself on failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Application, primitive.ObjectID, bool) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return nil, primitive.NilObjectID, false
	}

	appID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Ce dossier n'existe pas.")
		return nil, primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.GetForUser(ctx, appID, userID)
	if err != nil {
		if errors.Is(err, applicationstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce dossier n'existe pas.")
		} else {
			h.ErrLog.ServerError(w, r, "signature load failed", err)
		}
		return nil, primitive.NilObjectID, false
	}
	return app, userID, true
}

// ServeSignature renders the signature page for a dossier.
func (h *Handler) ServeSignature(w http.ResponseWriter, r *http.Request) {
	app, _, ok := h.load(w, r)
	if !ok {
		return
	}

	if app.Status == adhesion.StatusActive {
		http.Redirect(w, r, "/documents", http.StatusSeeOther)
		return
	}
	if app.Status != adhesion.StatusAwaitingSignature {
		uierrors.RenderForbidden(w, r, "Ce dossier n'est pas en attente de signature.", "/dashboard")
		return
	}

	data := pageData{
		App:            *app,
		ContractSigned: app.Signature.ContractSigned,
		SepaSigned:     app.Signature.SepaSigned,
		ReadyToFinish:  app.Signature.ContractSigned && app.Signature.SepaSigned,
	}
	formutil.SetBase(&data.Base, r, "Signature électronique", "/dashboard")
	templates.Render(w, r, "signature", data)
}

// HandleSign records one signature surface and re-renders the page.
func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	app, userID, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "signature form parse failed", err)
		return
	}

	surface := r.FormValue("surface")
	image := strings.TrimSpace(r.FormValue("signature_image"))

	reRender := func(msg string) {
		data := pageData{
			App:            *app,
			ContractSigned: app.Signature.ContractSigned,
			SepaSigned:     app.Signature.SepaSigned,
			ReadyToFinish:  app.Signature.ContractSigned && app.Signature.SepaSigned,
		}
		formutil.SetBase(&data.Base, r, "Signature électronique", "/dashboard")
		data.SetError(msg)
		templates.Render(w, r, "signature", data)
	}

	if image == "" || !strings.HasPrefix(image, "data:image/png;base64,") {
		reRender("Veuillez tracer votre signature avant de valider.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Applications.SignSurface(ctx, app.ID, userID, surface, image); err != nil {
		if errors.Is(err, applicationstore.ErrBadTransition) {
			uierrors.RenderForbidden(w, r, "Ce dossier n'est pas en attente de signature.", "/dashboard")
			return
		}
		h.ErrLog.ServerError(w, r, "signature record failed", err)
		return
	}

	http.Redirect(w, r, "/signature/"+app.ID.Hex(), http.StatusSeeOther)
}

// HandleFinalize activates the membership once both surfaces are signed.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	app, userID, ok := h.load(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Applications.FinalizeSignature(ctx, app.ID, userID); err != nil {
		if errors.Is(err, applicationstore.ErrBadTransition) {
			uierrors.RenderForbidden(w, r, "Les deux signatures sont nécessaires pour finaliser l'adhésion.", "/signature/"+app.ID.Hex())
			return
		}
		h.ErrLog.ServerError(w, r, "signature finalize failed", err)
		return
	}

	h.Log.Info("membership activated",
		zap.String("application", app.ID.Hex()),
		zap.String("user", userID.Hex()))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
