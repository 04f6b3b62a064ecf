// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"github.com/mapartdesoleil/soleilhub/internal/app/resources"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built:
// shared templates, the bootstrap admin account, and (optionally) the
// demo project catalog.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, appCfg, deps, logger); err != nil {
			return err
		}
	}

	if appCfg.SeedDemoData {
		if err := seedCatalog(ctx, deps, logger); err != nil {
			return err
		}
	}

	return nil
}

// ensureAdmin creates the bootstrap admin account if the email is not
// taken yet. An existing account with that email is left untouched.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	_, err := users.Create(ctx, userstore.NewUser{
		FullName: appCfg.AdminName,
		Email:    appCfg.AdminEmail,
		Password: appCfg.AdminPassword,
		Role:     "admin",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil
		}
		logger.Error("bootstrap admin creation failed", zap.Error(err))
		return err
	}
	logger.Info("bootstrap admin account created", zap.String("email", appCfg.AdminEmail))
	return nil
}

// seedCatalog loads the demo projects when the catalog is empty.
func seedCatalog(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	projects := projectstore.New(deps.MongoDatabase)

	n, err := projects.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, p := range demoProjects() {
		if _, err := projects.Create(ctx, p); err != nil {
			if errors.Is(err, projectstore.ErrDuplicateID) {
				continue
			}
			logger.Error("catalog seed failed", zap.String("project", p.ID), zap.Error(err))
			return err
		}
	}
	logger.Info("demo project catalog seeded", zap.Int("projects", len(demoProjects())))
	return nil
}

func demoProjects() []models.Project {
	return []models.Project{
		{
			ID:                  "project-charente-maritime-1",
			Name:                "Bâtiment agricole en Charente-Maritime",
			Location:            "Charente-Maritime (17), France",
			Description:         "Construction d'un bâtiment agricole pour stockage de matériel en Charente-Maritime. Une installation solaire de 162 kWc intégrée en toiture pour valoriser le foncier agricole et générer des revenus complémentaires.",
			PowerKWC:            162,
			AnnualProductionMWH: 178,
			Latitude:            45.75,
			Longitude:           -0.63,
			ImageURL:            "/static/images/projet-charente-maritime.jpg",
		},
		{
			ID:                  "project-dordogne-1",
			Name:                "Bâtiment artisanal en Dordogne",
			Location:            "Dordogne (24), France",
			Description:         "Construction d'un bâtiment artisanal sur zone artisanale en Dordogne. Projet d'envergure de 500 kWc en toiture, idéalement situé sur une zone d'activité pour maximiser l'autoconsommation et la valorisation de l'énergie produite.",
			PowerKWC:            500,
			AnnualProductionMWH: 545,
			Latitude:            45.18,
			Longitude:           0.72,
			ImageURL:            "/static/images/projet-dordogne.jpg",
		},
		{
			ID:                  "project-gers-1",
			Name:                "Bâtiment agricole dans le Gers",
			Location:            "Gers (32), France",
			Description:         "Construction d'un bâtiment agricole pour stockage de matériel dans le Gers. Installation solaire de 280 kWc en toiture, bénéficiant d'un excellent ensoleillement du Sud-Ouest pour une production optimisée tout au long de l'année.",
			PowerKWC:            280,
			AnnualProductionMWH: 315,
			Latitude:            43.65,
			Longitude:           0.59,
			ImageURL:            "/static/images/projet-gers.jpg",
		},
	}
}
