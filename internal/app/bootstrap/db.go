// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/timeouts"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by the whole app.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Error("mongo ping failed", zap.Error(err))
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on.
//
// users.email is unique so duplicate registrations fail at the database
// even under concurrent submits. applications carries a partial unique
// index over (user_id, project_id) restricted to open statuses, backing
// the one-open-application-per-project guard.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		logger.Error("users index creation failed", zap.Error(err))
		return err
	}

	openStatuses := []adhesion.Status{
		adhesion.StatusPending,
		adhesion.StatusAwaitingSignature,
		adhesion.StatusInfoRequested,
		adhesion.StatusActive,
	}
	_, err = db.Collection("applications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("one_open_application_per_project").
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": openStatuses}}),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: 1}},
			Options: options.Index().SetName("status_queue"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("user_dossiers"),
		},
	})
	if err != nil {
		logger.Error("applications index creation failed", zap.Error(err))
		return err
	}

	_, err = db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("recipient_inbox"),
	})
	if err != nil {
		logger.Error("notifications index creation failed", zap.Error(err))
		return err
	}

	return nil
}
