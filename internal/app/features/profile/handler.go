// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/formutil"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/validators"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	formutil.Base
	User  models.User
	Saved bool
}

type Handler struct {
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeProfile renders the profile page. The delivery point and bank
// details are read-only here; they change through an adhesion form.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "profile load failed", err)
		return
	}

	data := pageData{User: *u, Saved: r.URL.Query().Get("saved") == "1"}
	formutil.SetBase(&data.Base, r, "Mon profil", "/dashboard")
	templates.Render(w, r, "profile", data)
}

// HandleUpdate saves the editable contact fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "profile form parse failed", err)
		return
	}

	phone := strings.TrimSpace(r.FormValue("phone"))
	address := strings.TrimSpace(r.FormValue("address"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reRender := func(msg string) {
		u, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			h.ErrLog.ServerError(w, r, "profile reload failed", err)
			return
		}
		u.Phone = phone
		u.Address = address
		data := pageData{User: *u}
		formutil.SetBase(&data.Base, r, "Mon profil", "/dashboard")
		data.SetError(msg)
		templates.Render(w, r, "profile", data)
	}

	if phone != "" && !validators.Phone(phone) {
		reRender("Le numéro de téléphone est invalide.")
		return
	}

	if err := h.Users.UpdateContact(ctx, userID, phone, address); err != nil {
		h.ErrLog.ServerError(w, r, "profile update failed", err)
		return
	}

	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}
