// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and returns it.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		PasswordHash: "$2a$12$fixture.hash.not.a.real.password.hash.value00",
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateMember inserts a member account.
func (f *Fixtures) CreateMember(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, "member")
}

// CreateAdmin inserts an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, "admin")
}

// CreateProject inserts a catalog project with the given slug id.
func (f *Fixtures) CreateProject(ctx context.Context, id, name string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:                  id,
		Name:                name,
		NameCI:              text.Fold(name),
		Location:            "Gers (32), France",
		PowerKWC:            280,
		AnnualProductionMWH: 315,
		Latitude:            43.65,
		Longitude:           0.59,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateApplication inserts an application in the given status for the
// user and project.
func (f *Fixtures) CreateApplication(ctx context.Context, user models.User, project models.Project, status adhesion.Status) models.Application {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Application{
		ID:          primitive.NewObjectID(),
		Reference:   uuid.NewString(),
		UserID:      user.ID,
		UserName:    user.FullName,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Status:      status,
		PdlPrm:      "12345678901234",
		Address:     "12 rue du Soleil, 32000 Auch",
		Phone:       "+33612345678",
		IBAN:        "FR1420041010050500013M02606",
		BIC:         "PSSTFRPPXXX",
		Documents: []models.ApplicationDocument{
			{Name: "Contrat d'adhésion"},
			{Name: "Mandat de prélèvement SEPA"},
		},
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("applications").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return a
}

// CreateNotification inserts a notification for the recipient.
func (f *Fixtures) CreateNotification(ctx context.Context, recipient, title string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		Recipient: recipient,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
