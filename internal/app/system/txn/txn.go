// Package txn runs multi-document units of work inside a MongoDB
// transaction when the deployment supports one (replica set / mongos),
// and falls back to running the callback without a transaction on
// standalone servers.
//
// The adhesion submission is the one place the app writes three
// collections as a logically atomic unit; on deployments without
// transactions the fallback preserves write order: the application
// insert comes first and the admin notification last, so a mid-unit
// failure can leave a dossier missing its profile copy or notification
// but never a notification for an application that was not created.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction executes fn inside a session transaction. If the
// server reports that transactions are unsupported, fn is re-run once
// outside a transaction.
func WithTransaction(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Info("mongo sessions unsupported; running without transaction")
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Info("mongo transactions unsupported; running without transaction")
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the deployment cannot
// run multi-document transactions (standalone server, some DocumentDB
// configurations).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 IllegalOperation, 51 — transaction numbers require a
		// replica set member; 263 OperationNotSupportedInTransaction.
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("illegal operation") && has("transaction"):
		return true
	}
	return false
}
