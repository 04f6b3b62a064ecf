// internal/app/features/adminexport/handler.go
package adminexport

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/export"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler produces the admin data dumps.
type Handler struct {
	Users        *userstore.Store
	Applications *applicationstore.Store
	Exporter     export.Exporter
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, exporter export.Exporter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Applications: applicationstore.New(db, logger),
		Exporter:     exporter,
		ErrLog:       errLog,
		Log:          logger,
	}
}

// ServeUsers streams the account list.
// GET /admin/export/users.csv
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users, err := h.Users.List(ctx, 1, 0)
	if err != nil {
		h.ErrLog.ServerError(w, r, "user export failed", err)
		return
	}

	header := []string{"nom", "email", "role", "statut", "telephone", "pdl_prm", "cree_le"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.FullName,
			u.Email,
			u.Role,
			u.Status,
			u.Phone,
			u.PdlPrm,
			u.CreatedAt.Format("2006-01-02"),
		})
	}

	if err := export.ServeDownload(w, h.Exporter, "users", header, rows); err != nil {
		h.Log.Warn("user export write failed", zap.Error(err))
	}
}

// ServeApplications streams every dossier.
// GET /admin/export/applications.csv
func (h *Handler) ServeApplications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	apps, err := h.Applications.ListAll(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "application export failed", err)
		return
	}

	header := []string{"reference", "membre", "projet", "statut", "pdl_prm", "contrat_signe", "mandat_signe", "soumise_le"}
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []string{
			a.Reference,
			a.UserName,
			a.ProjectName,
			string(a.Status),
			a.PdlPrm,
			strconv.FormatBool(a.Signature.ContractSigned),
			strconv.FormatBool(a.Signature.SepaSigned),
			a.SubmittedAt.Format("2006-01-02"),
		})
	}

	if err := export.ServeDownload(w, h.Exporter, "applications", header, rows); err != nil {
		h.Log.Warn("application export write failed", zap.Error(err))
	}
}
