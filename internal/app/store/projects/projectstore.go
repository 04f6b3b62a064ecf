package projectstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/normalize"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

var (
	// ErrNotFound is returned when no project has the requested id.
	ErrNotFound = errors.New("project not found")
	// ErrDuplicateID is returned when creating a project whose slug id
	// already exists.
	ErrDuplicateID = errors.New("a project with this id already exists")
	errBadSlug     = errors.New("project id must be a lowercase slug (letters, digits, dashes)")
	errNoName      = errors.New("project name is required")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GetByID loads a project by its slug id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of projects in the catalog.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Create inserts a new project after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	p.Location = normalize.Name(p.Location)

	if !slugRe.MatchString(p.ID) {
		return models.Project{}, errBadSlug
	}
	if p.Name == "" {
		return models.Project{}, errNoName
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateID
		}
		return models.Project{}, err
	}
	return p, nil
}

// Update holds the editable project fields.
type Update struct {
	Name                  string
	Location              string
	Description           string
	PowerKWC              float64
	AnnualProductionMWH   float64
	MaxParticipants       int
	EligibilityDistanceKM float64
	ConsumerTariff        float64
	Latitude              float64
	Longitude             float64
	ImageURL              string
}

// UpdateByID applies an Update to a project.
func (s *Store) UpdateByID(ctx context.Context, id string, upd Update) error {
	name := normalize.Name(upd.Name)
	if name == "" {
		return errNoName
	}
	set := bson.M{
		"name":                    name,
		"name_ci":                 text.Fold(name),
		"location":                normalize.Name(upd.Location),
		"description":             upd.Description,
		"power_kwc":               upd.PowerKWC,
		"annual_production_mwh":   upd.AnnualProductionMWH,
		"max_participants":        upd.MaxParticipants,
		"eligibility_distance_km": upd.EligibilityDistanceKM,
		"consumer_tariff":         upd.ConsumerTariff,
		"latitude":                upd.Latitude,
		"longitude":               upd.Longitude,
		"image_url":               upd.ImageURL,
		"updated_at":              time.Now().UTC(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project. Existing applications keep their
// denormalized project name.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IncParticipants bumps the participant counter when an application
// becomes active.
func (s *Store) IncParticipants(ctx context.Context, id string, delta int) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"participants": delta}})
	return err
}
