// internal/app/features/documents/handler.go
package documents

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// dossierDocs groups the documents of one application.
type dossierDocs struct {
	App       models.Application
	Documents []models.ApplicationDocument
	SignedAt  string
}

type pageData struct {
	viewdata.BaseVM
	Dossiers []dossierDocs
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

// ServeDocuments lists the documents of each of the member's dossiers.
func (h *Handler) ServeDocuments(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	apps, err := h.Applications.ListForUser(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "documents list failed", err)
		return
	}

	dossiers := make([]dossierDocs, 0, len(apps))
	for _, a := range apps {
		if len(a.Documents) == 0 {
			continue
		}
		d := dossierDocs{App: a, Documents: a.Documents}
		if a.Signature.SignedAt != nil {
			d.SignedAt = a.Signature.SignedAt.Format("02/01/2006")
		}
		dossiers = append(dossiers, d)
	}

	data := pageData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Mes documents", "/dashboard"),
		Dossiers: dossiers,
	}
	templates.Render(w, r, "documents", data)
}
