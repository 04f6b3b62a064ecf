// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	notificationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/notifications"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
	Notifications []models.Notification
	HasUnread     bool
}

type Handler struct {
	DB            *mongo.Database
	Notifications *notificationstore.Store
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Notifications: notificationstore.New(db),
		ErrLog:        errLog,
		Log:           logger,
	}
}

// recipient resolves the inbox for the signed-in user: admins share the
// administrator inbox, members have their own.
func recipient(r *http.Request) (string, bool) {
	role, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		return "", false
	}
	if role == "admin" {
		return models.AdminRecipient, true
	}
	return userID.Hex(), true
}

// ServeList renders the inbox, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	rcpt, ok := recipient(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Notifications.ListForRecipient(ctx, rcpt)
	if err != nil {
		h.ErrLog.ServerError(w, r, "notification list failed", err)
		return
	}

	hasUnread := false
	for _, n := range list {
		if !n.Read {
			hasUnread = true
			break
		}
	}

	data := pageData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Notifications", "/"),
		Notifications: list,
		HasUnread:     hasUnread,
	}
	templates.Render(w, r, "notifications", data)
}

// withNotificationID runs fn against the {id} route param for the
// caller's own inbox, then returns to the inbox.
func (h *Handler) withNotificationID(w http.ResponseWriter, r *http.Request, what string, fn func(ctx context.Context, rcpt string, id primitive.ObjectID) error) {
	rcpt, ok := recipient(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Cette notification n'existe pas.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := fn(ctx, rcpt, id); err != nil && !errors.Is(err, notificationstore.ErrNotFound) {
		h.ErrLog.ServerError(w, r, what+" failed", err)
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

// HandleMarkRead marks one notification read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	h.withNotificationID(w, r, "notification mark-read", h.Notifications.MarkRead)
}

// HandleDelete removes one notification.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.withNotificationID(w, r, "notification delete", h.Notifications.Delete)
}

// HandleMarkAllRead marks the whole inbox read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	rcpt, ok := recipient(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Notifications.MarkAllRead(ctx, rcpt); err != nil {
		h.ErrLog.ServerError(w, r, "notification mark-all failed", err)
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

// HandleDeleteAll clears the inbox.
func (h *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	rcpt, ok := recipient(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Notifications.DeleteAll(ctx, rcpt); err != nil {
		h.ErrLog.ServerError(w, r, "notification delete-all failed", err)
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}
