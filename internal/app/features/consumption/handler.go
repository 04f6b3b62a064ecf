// internal/app/features/consumption/handler.go
package consumption

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/authz"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
	PdlPrm    string
	HasActive bool
}

// Handler serves the consumption page. Metering data comes from the
// distribution operator and is not connected yet; the page shows the
// delivery point and the activation state of the membership.
type Handler struct {
	DB           *mongo.Database
	Users        *userstore.Store
	Applications *applicationstore.Store
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Users:        userstore.New(db),
		Applications: applicationstore.New(db, logger),
		ErrLog:       errLog,
		Log:          logger,
	}
}

// ServeConsumption renders the consumption page.
func (h *Handler) ServeConsumption(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Ma consommation", "/dashboard"),
	}

	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		data.PdlPrm = u.PdlPrm
	}
	if apps, err := h.Applications.ListForUser(ctx, userID); err == nil {
		for _, a := range apps {
			if a.Status == adhesion.StatusActive {
				data.HasActive = true
				break
			}
		}
	}

	templates.Render(w, r, "consumption", data)
}
