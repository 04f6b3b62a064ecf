// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

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
	FullName string
	Email    string
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

// ServeForm renders the registration form.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := formData{}
	formutil.SetBase(&data.Base, r, "Créer un compte", "/")
	templates.Render(w, r, "register", data)
}

// HandleSubmit processes the registration POST. On success the new
// member is signed in and sent to their dashboard.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "register form parse failed", err)
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	reRender := func(msg string) {
		data := formData{FullName: fullName, Email: email}
		formutil.SetBase(&data.Base, r, "Créer un compte", "/")
		data.SetError(msg)
		templates.Render(w, r, "register", data)
	}

	if password != confirm {
		reRender("Les deux mots de passe ne correspondent pas.")
		return
	}
	if len(password) < 8 {
		reRender("Le mot de passe doit contenir au moins 8 caractères.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, userstore.NewUser{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			reRender("Un compte existe déjà avec cette adresse email.")
			return
		}
		// Store validation errors carry user-safe French messages.
		if isValidationErr(err) {
			reRender(frMessage(err))
			return
		}
		h.ErrLog.ServerError(w, r, "register create failed", err)
		return
	}

	if err := auth.SignIn(w, r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.ErrLog.ServerError(w, r, "register sign-in failed", err)
		return
	}

	h.Log.Info("member registered", zap.String("user", u.ID.Hex()))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// isValidationErr reports whether err is one of the store's input
// validation failures rather than an infrastructure fault.
func isValidationErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "required") || strings.Contains(msg, "at least")
}

func frMessage(err error) string {
	switch {
	case strings.Contains(err.Error(), "full name"):
		return "Le nom complet est requis."
	case strings.Contains(err.Error(), "email"):
		return "Une adresse email valide est requise."
	default:
		return "Le mot de passe doit contenir au moins 8 caractères."
	}
}
