// internal/app/features/howitworks/handler.go
package howitworks

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
}

// Handler serves the static explainer for collective self-consumption.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// ServePage renders the "Comment ça marche ?" page.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Comment ça marche ?", "/"),
	}
	templates.Render(w, r, "how_it_works", data)
}
