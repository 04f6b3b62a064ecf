// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminRecipient is the recipient value for notifications addressed to
// the administrator inbox rather than to a specific user.
const AdminRecipient = "admin"

// Notification is an append-only record produced as a side effect of
// workflow transitions. Recipient is either AdminRecipient or a user
// ObjectID hex. Mutated only by mark-read and delete.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient string             `bson:"recipient" json:"recipient"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`

	// ActionLink, when set, points the recipient at the next workflow
	// step (e.g. the signature page after approval).
	ActionLink string `bson:"action_link,omitempty" json:"action_link,omitempty"`

	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
