// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/contactsender"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/formutil"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/htmlsanitize"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/validators"
	"go.uber.org/zap"
)

type formData struct {
	formutil.Base
	Name    string
	Email   string
	Subject string
	Message string
	Sent    bool
}

type Handler struct {
	Sender contactsender.Sender
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the contact handler. sender may be nil when no
// endpoint is configured; the form then reports that contact is closed.
func NewHandler(sender contactsender.Sender, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Sender: sender, ErrLog: errLog, Log: logger}
}

// ServeForm renders the contact form.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	data := formData{Sent: r.URL.Query().Get("sent") == "1"}
	formutil.SetBase(&data.Base, r, "Contact", "/")
	templates.Render(w, r, "contact", data)
}

// HandleSubmit relays the submission to the configured endpoint. The
// hidden "website" field is a honeypot: a filled-in value gets the
// success response without any send.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "contact form parse failed", err)
		return
	}

	p := contactsender.Payload{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Subject:  strings.TrimSpace(r.FormValue("subject")),
		Message:  htmlsanitize.PlainText(strings.TrimSpace(r.FormValue("message"))),
		Honeypot: r.FormValue("website"),
	}

	if p.Honeypot != "" {
		h.Log.Info("contact honeypot triggered")
		http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
		return
	}

	reRender := func(msg string) {
		data := formData{Name: p.Name, Email: p.Email, Subject: p.Subject, Message: p.Message}
		formutil.SetBase(&data.Base, r, "Contact", "/")
		data.SetError(msg)
		templates.Render(w, r, "contact", data)
	}

	if p.Name == "" || p.Message == "" {
		reRender("Le nom et le message sont obligatoires.")
		return
	}
	if !validators.SimpleEmailValid(p.Email) {
		reRender("Une adresse email valide est requise pour vous répondre.")
		return
	}
	if h.Sender == nil {
		reRender("Le formulaire de contact est momentanément indisponible.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Sender.Send(ctx, p); err != nil {
		h.Log.Warn("contact relay failed", zap.Error(err))
		reRender("L'envoi a échoué. Veuillez réessayer dans quelques instants.")
		return
	}

	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}
