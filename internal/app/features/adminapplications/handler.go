// internal/app/features/adminapplications/handler.go
package adminapplications

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/htmlsanitize"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// queueRow is one application in the review queue.
type queueRow struct {
	App         models.Application
	StatusLabel string
}

type listData struct {
	viewdata.BaseVM
	Pending       []queueRow
	InfoRequested []queueRow
	Awaiting      []queueRow
	ActiveCount   int64
	RejectedCount int64
}

type detailData struct {
	viewdata.BaseVM
	App         models.Application
	StatusLabel string
	CanReview   bool
}

// Handler is the admin review console: the pending queue, dossier
// detail, and the three review outcomes.
type Handler struct {
	DB           *mongo.Database
	Applications *applicationstore.Store
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Applications: applicationstore.New(db, logger),
		ErrLog:       errLog,
		Log:          logger,
	}
}

func toRows(apps []models.Application) []queueRow {
	rows := make([]queueRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, queueRow{App: a, StatusLabel: a.Status.Label()})
	}
	return rows
}

// ServeQueue renders the review queue grouped by workflow state.
func (h *Handler) ServeQueue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pending, err := h.Applications.ListByStatus(ctx, adhesion.StatusPending)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin queue load failed", err)
		return
	}
	infoRequested, err := h.Applications.ListByStatus(ctx, adhesion.StatusInfoRequested)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin queue load failed", err)
		return
	}
	awaiting, err := h.Applications.ListByStatus(ctx, adhesion.StatusAwaitingSignature)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin queue load failed", err)
		return
	}

	activeCount, _ := h.Applications.CountByStatus(ctx, adhesion.StatusActive)
	rejectedCount, _ := h.Applications.CountByStatus(ctx, adhesion.StatusRejected)

	data := listData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Demandes d'adhésion", "/"),
		Pending:       toRows(pending),
		InfoRequested: toRows(infoRequested),
		Awaiting:      toRows(awaiting),
		ActiveCount:   activeCount,
		RejectedCount: rejectedCount,
	}
	templates.Render(w, r, "admin_applications", data)
}

// load resolves the {id} route param. Renders the error page itself on
// failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*models.Application, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Ce dossier n'existe pas.")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, applicationstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce dossier n'existe pas.")
		} else {
			h.ErrLog.ServerError(w, r, "admin application load failed", err)
		}
		return nil, false
	}
	return app, true
}

// ServeDetail renders one dossier for review.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}

	data := detailData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Dossier "+app.Reference, "/admin/applications"),
		App:         *app,
		StatusLabel: app.Status.Label(),
		CanReview:   app.Status == adhesion.StatusPending,
	}
	templates.Render(w, r, "admin_application_detail", data)
}

// HandleApprove accepts a pending dossier.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Applications.Approve(ctx, app.ID); err != nil {
		h.reviewError(w, r, "admin approve failed", err)
		return
	}

	h.Log.Info("application approved", zap.String("application", app.ID.Hex()))
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

// HandleReject refuses a pending dossier. The optional reason is
// sanitized before it reaches the member's notification.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "admin reject parse failed", err)
		return
	}

	reason := htmlsanitize.PlainText(strings.TrimSpace(r.FormValue("reason")))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Applications.Reject(ctx, app.ID, reason); err != nil {
		h.reviewError(w, r, "admin reject failed", err)
		return
	}

	h.Log.Info("application rejected", zap.String("application", app.ID.Hex()))
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

// HandleRequestInfo asks the member for more information. An empty
// message after sanitization is a no-op back to the dossier.
func (h *Handler) HandleRequestInfo(w http.ResponseWriter, r *http.Request) {
	app, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "admin request-info parse failed", err)
		return
	}

	message := htmlsanitize.PlainText(strings.TrimSpace(r.FormValue("message")))
	if message == "" {
		http.Redirect(w, r, "/admin/applications/"+app.ID.Hex(), http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Applications.RequestInfo(ctx, app.ID, message); err != nil {
		h.reviewError(w, r, "admin request-info failed", err)
		return
	}

	h.Log.Info("information requested", zap.String("application", app.ID.Hex()))
	http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
}

// reviewError maps a failed review action: a concurrent status change
// gets a friendly message, anything else the generic error page.
func (h *Handler) reviewError(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, applicationstore.ErrBadTransition) {
		uierrors.RenderForbidden(w, r, "Ce dossier a déjà été traité.", "/admin/applications")
		return
	}
	h.ErrLog.ServerError(w, r, what, err)
}
