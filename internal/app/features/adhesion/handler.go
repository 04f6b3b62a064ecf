// internal/app/features/adhesion/handler.go
package adhesion

import (
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler drives the three-step membership application form.
//
// The draft is stateless: each step POST re-validates what came before
// and carries accepted values forward in hidden fields. Navigating away
// discards the draft; nothing is persisted until final submission.
type Handler struct {
	DB           *mongo.Database
	Projects     *projectstore.Store
	Users        *userstore.Store
	Applications *applicationstore.Store
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Projects:     projectstore.New(db),
		Users:        userstore.New(db),
		Applications: applicationstore.New(db, logger),
		ErrLog:       errLog,
		Log:          logger,
	}
}
