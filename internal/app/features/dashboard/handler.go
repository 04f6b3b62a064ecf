// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// dossierRow is one application as shown on the member dashboard.
type dossierRow struct {
	App         models.Application
	StatusLabel string

	// Workflow affordances
	CanSign     bool
	CanResubmit bool
	IsActive    bool
}

type pageData struct {
	viewdata.BaseVM
	Dossiers      []dossierRow
	JustSubmitted bool
}

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

// ServeDashboard renders the member's dossiers with their workflow state.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	apps, err := h.Applications.ListForUser(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "dashboard list failed", err)
		return
	}

	rows := make([]dossierRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, dossierRow{
			App:         a,
			StatusLabel: a.Status.Label(),
			CanSign:     a.Status == adhesion.StatusAwaitingSignature,
			CanResubmit: a.Status == adhesion.StatusInfoRequested,
			IsActive:    a.Status == adhesion.StatusActive,
		})
	}

	data := pageData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Mon espace", "/"),
		Dossiers:      rows,
		JustSubmitted: query.Get(r, "submitted") == "1",
	}
	templates.Render(w, r, "dashboard", data)
}
