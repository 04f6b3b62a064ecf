// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	adhesionfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/adhesion"
	adminapplicationsfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/adminapplications"
	adminexportfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/adminexport"
	adminprojectsfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/adminprojects"
	adminusersfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/adminusers"
	consumptionfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/consumption"
	contactfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/contact"
	dashboardfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/dashboard"
	documentsfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/documents"
	errorsfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	healthfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/health"
	homefeature "github.com/mapartdesoleil/soleilhub/internal/app/features/home"
	howitworksfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/howitworks"
	loginfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/login"
	logoutfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/logout"
	notificationsfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/notifications"
	profilefeature "github.com/mapartdesoleil/soleilhub/internal/app/features/profile"
	projectsfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/projects"
	registerfeature "github.com/mapartdesoleil/soleilhub/internal/app/features/register"
	signaturefeature "github.com/mapartdesoleil/soleilhub/internal/app/features/signature"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/auth"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/contactsender"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/export"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/tiles"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the platform.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It initializes the session store and the
// template engine, builds the external collaborators (contact webhook,
// tile provider, CSV exporter), and mounts one subrouter per feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.MongoDatabase

	// External collaborators.
	var sender contactsender.Sender
	if appCfg.ContactWebhookURL != "" {
		sender = contactsender.NewWebhook(appCfg.ContactWebhookURL, nil, logger)
	}
	tileProvider := tiles.NewOSM(appCfg.TileURLTemplate)
	exporter := &export.CSV{}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	r.Mount("/", homefeature.Routes(homefeature.NewHandler(db, sender != nil, logger)))
	r.Mount("/projects", projectsfeature.Routes(projectsfeature.NewHandler(db, tileProvider, errLog, logger)))
	r.Mount("/how-it-works", howitworksfeature.Routes(howitworksfeature.NewHandler(db, logger)))
	r.Mount("/contact", contactfeature.Routes(contactfeature.NewHandler(sender, errLog, logger)))

	// Authentication
	r.Mount("/register", registerfeature.Routes(registerfeature.NewHandler(db, errLog, logger)))
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(db, errLog, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(logger)))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Member area
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(db, errLog, logger)))
	r.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(db, errLog, logger)))
	r.Mount("/adhesion", adhesionfeature.Routes(adhesionfeature.NewHandler(db, errLog, logger)))
	r.Mount("/signature", signaturefeature.Routes(signaturefeature.NewHandler(db, errLog, logger)))
	r.Mount("/documents", documentsfeature.Routes(documentsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/consumption", consumptionfeature.Routes(consumptionfeature.NewHandler(db, errLog, logger)))
	r.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(db, errLog, logger)))

	// Admin console
	r.Mount("/admin/applications", adminapplicationsfeature.Routes(adminapplicationsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/admin/projects", adminprojectsfeature.Routes(adminprojectsfeature.NewHandler(db, errLog, logger)))
	r.Mount("/admin/users", adminusersfeature.Routes(adminusersfeature.NewHandler(db, errLog, logger)))
	r.Mount("/admin/export", adminexportfeature.Routes(adminexportfeature.NewHandler(db, exporter, errLog, logger)))

	return r, nil
}
