package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/normalize"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/validators"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed for all stored password hashes.
const bcryptCost = 12

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email already has an account.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrBadCredentials is returned by Authenticate for any sign-in
	// failure; the reason is never distinguished to the caller.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled is returned when a disabled account signs in
	// with otherwise valid credentials.
	ErrAccountDisabled = errors.New("this account is disabled")

	errNoName       = errors.New("full name is required")
	errBadEmail     = errors.New("a valid email is required")
	errWeakPassword = errors.New("password must be at least 8 characters")
)

// NewUser carries the registration form fields.
type NewUser struct {
	FullName string
	Email    string
	Password string
	Role     string // defaults to member
}

// Create registers an account. The password is hashed with bcrypt; the
// plaintext is never stored.
func (s *Store) Create(ctx context.Context, nu NewUser) (models.User, error) {
	name := normalize.Name(nu.FullName)
	email := normalize.Email(nu.Email)

	if name == "" {
		return models.User{}, errNoName
	}
	if !validators.SimpleEmailValid(email) {
		return models.User{}, errBadEmail
	}
	if len(nu.Password) < 8 {
		return models.User{}, errWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	role := nu.Role
	if role != "admin" {
		role = "member"
	}

	now := time.Now().UTC()
	u := models.User{
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// Authenticate checks email+password and returns the user. Wrong email
// and wrong password both yield ErrBadCredentials; a disabled account
// with correct credentials yields ErrAccountDisabled.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrBadCredentials
	}
	if u.Status == "disabled" {
		return models.User{}, ErrAccountDisabled
	}
	return *u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ProfileUpdate is the set of fields an adhesion submission copies onto
// the member's profile. Last submission wins.
type ProfileUpdate struct {
	Phone   string
	Address string
	PdlPrm  string
	IBAN    string
	BIC     string
}

// ApplyProfile overwrites the profile fields from an adhesion form.
func (s *Store) ApplyProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) error {
	set := bson.M{
		"phone":             normalize.Phone(p.Phone),
		"address":           p.Address,
		"pdl_prm":           normalize.PdlPrm(p.PdlPrm),
		"bank_details.iban": normalize.IBAN(p.IBAN),
		"bank_details.bic":  normalize.BIC(p.BIC),
		"updated_at":        time.Now().UTC(),
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

// UpdateName renames the account and refreshes the fold key.
func (s *Store) UpdateName(ctx context.Context, id primitive.ObjectID, fullName string) error {
	name := normalize.Name(fullName)
	if name == "" {
		return errNoName
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateContact changes the phone and address from the profile page
// without touching the banking details.
func (s *Store) UpdateContact(ctx context.Context, id primitive.ObjectID, phone, address string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"phone":      normalize.Phone(phone),
		"address":    address,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != "active" && status != "disabled" {
		return errors.New("status must be active or disabled")
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns users ordered by folded name, for the admin console.
// start is 1-based; limit rows are fetched (callers pass PageSize+1 for
// look-ahead pagination).
func (s *Store) List(ctx context.Context, start int, limit int64) ([]models.User, error) {
	skip := int64(start - 1)
	if skip < 0 {
		skip = 0
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
