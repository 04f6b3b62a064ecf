// internal/app/features/adminusers/handler.go
package adminusers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/paging"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
	Users []models.User
	Total int64

	HasPrev   bool
	HasNext   bool
	PrevStart int
	NextStart int
}

// Handler is the admin account console: the paged account list with
// enable/disable.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeList renders the paged account list.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, start, paging.LimitPlusOne())
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin user list failed", err)
		return
	}
	total, _ := h.Users.Count(ctx)

	shown, page := paging.TrimPage(len(users), start)
	users = users[:shown]

	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Comptes", "/"),
		Users:     users,
		Total:     total,
		HasPrev:   page.HasPrev,
		HasNext:   page.HasNext,
		PrevStart: paging.PrevStart(start),
		NextStart: paging.NextStart(start),
	}
	templates.Render(w, r, "admin_users", data)
}

// setStatus flips one account between active and disabled.
func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Ce compte n'existe pas.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Ce compte n'existe pas.")
			return
		}
		h.ErrLog.ServerError(w, r, "admin user status change failed", err)
		return
	}

	h.Log.Info("account status changed",
		zap.String("user", id.Hex()), zap.String("status", status))
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// HandleDisable disables an account; sign-in is refused until re-enabled.
func (h *Handler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "disabled")
}

// HandleEnable re-enables an account.
func (h *Handler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "active")
}
