// Package notificationstore persists the in-app notification relay.
// Notifications are append-only side effects of workflow transitions;
// the only mutations are mark-read and delete by the recipient.
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

var ErrNotFound = errors.New("notification not found")

// Push appends a notification for the recipient. Used both directly and
// inside submission transactions via PushWith.
func (s *Store) Push(ctx context.Context, recipient, title, message, actionLink string) (models.Notification, error) {
	n := models.Notification{
		Recipient:  recipient,
		Title:      title,
		Message:    message,
		ActionLink: actionLink,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}
	res, err := s.c.InsertOne(ctx, n)
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return n, nil
}

// ListForRecipient returns the recipient's notifications, newest first.
func (s *Store) ListForRecipient(ctx context.Context, recipient string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount powers the header badge.
func (s *Store) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient": recipient, "read": false})
}

// MarkRead marks one notification read. The recipient filter keeps a
// user from touching another inbox.
func (s *Store) MarkRead(ctx context.Context, recipient string, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every notification in the inbox read.
func (s *Store) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes one notification from the inbox.
func (s *Store) Delete(ctx context.Context, recipient string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll clears the inbox.
func (s *Store) DeleteAll(ctx context.Context, recipient string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"recipient": recipient})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
