// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/formutil"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type formData struct {
	formutil.Base
	Email  string
	Return string
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

// ServeForm renders the sign-in form.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if u, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, landingFor(u.Role), http.StatusSeeOther)
		return
	}

	data := formData{Return: safeReturn(query.Get(r, "return"))}
	formutil.SetBase(&data.Base, r, "Connexion", "/")
	templates.Render(w, r, "login", data)
}

// HandleSubmit processes the sign-in POST.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "login form parse failed", err)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := safeReturn(r.FormValue("return"))

	reRender := func(msg string) {
		data := formData{Email: email, Return: ret}
		formutil.SetBase(&data.Base, r, "Connexion", "/")
		data.SetError(msg)
		templates.Render(w, r, "login", data)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrBadCredentials):
			reRender("Email ou mot de passe incorrect.")
		case errors.Is(err, userstore.ErrAccountDisabled):
			reRender("Ce compte est désactivé. Contactez-nous pour le réactiver.")
		default:
			h.ErrLog.ServerError(w, r, "login failed", err)
		}
		return
	}

	if err := auth.SignIn(w, r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.ErrLog.ServerError(w, r, "login sign-in failed", err)
		return
	}

	h.Log.Info("user signed in", zap.String("user", u.ID.Hex()), zap.String("role", u.Role))

	if ret != "" {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, landingFor(u.Role), http.StatusSeeOther)
}

func landingFor(role string) string {
	if role == "admin" {
		return "/admin/applications"
	}
	return "/dashboard"
}

// safeReturn accepts only same-site paths so the return parameter
// cannot redirect off the platform.
func safeReturn(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return u.RequestURI()
}
