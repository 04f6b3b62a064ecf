package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newStore(t *testing.T) (*userstore.Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	// The unique email index normally comes from schema setup at boot.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		t.Fatalf("failed to create email index: %v", err)
	}

	return userstore.New(db), db
}

func TestCreate(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, userstore.NewUser{
		FullName: "  Marie Dupont ",
		Email:    " Marie.Dupont@Example.FR ",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if u.FullName != "Marie Dupont" {
		t.Errorf("FullName = %q", u.FullName)
	}
	if u.Email != "marie.dupont@example.fr" {
		t.Errorf("Email = %q, want normalized lowercase", u.Email)
	}
	if u.Role != "member" {
		t.Errorf("Role = %q, want member by default", u.Role)
	}
	if u.Status != "active" {
		t.Errorf("Status = %q, want active", u.Status)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct-horse" {
		t.Error("password must be stored hashed")
	}
	if u.ID.IsZero() {
		t.Error("ID should be assigned on insert")
	}
}

func TestCreateValidation(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []userstore.NewUser{
		{FullName: "", Email: "a@b.fr", Password: "longenough"},
		{FullName: "A", Email: "not-an-email", Password: "longenough"},
		{FullName: "A", Email: "a@b.fr", Password: "short"},
	}
	for i, nu := range cases {
		if _, err := store.Create(ctx, nu); err == nil {
			t.Errorf("case %d: Create() should have failed", i)
		}
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	nu := userstore.NewUser{FullName: "Marie", Email: "marie@example.fr", Password: "longenough"}
	if _, err := store.Create(ctx, nu); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	// Same address with different case still collides.
	nu.Email = "MARIE@example.fr"
	_, err := store.Create(ctx, nu)
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("second Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, userstore.NewUser{
		FullName: "Marie", Email: "marie@example.fr", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	u, err := store.Authenticate(ctx, "marie@example.fr", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if u.ID != created.ID {
		t.Error("authenticated the wrong user")
	}

	if _, err := store.Authenticate(ctx, "marie@example.fr", "wrong"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("wrong password: error = %v, want ErrBadCredentials", err)
	}
	if _, err := store.Authenticate(ctx, "nobody@example.fr", "correct-horse"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("unknown email: error = %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticateDisabled(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, userstore.NewUser{
		FullName: "Marie", Email: "marie@example.fr", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := store.SetStatus(ctx, created.ID, "disabled"); err != nil {
		t.Fatalf("SetStatus() error: %v", err)
	}

	_, err = store.Authenticate(ctx, "marie@example.fr", "correct-horse")
	if !errors.Is(err, userstore.ErrAccountDisabled) {
		t.Errorf("disabled account: error = %v, want ErrAccountDisabled", err)
	}

	// Wrong password on a disabled account still reports bad credentials.
	_, err = store.Authenticate(ctx, "marie@example.fr", "wrong")
	if !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("disabled + wrong password: error = %v, want ErrBadCredentials", err)
	}
}

func TestApplyProfile(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, userstore.NewUser{
		FullName: "Marie", Email: "marie@example.fr", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err = store.ApplyProfile(ctx, created.ID, userstore.ProfileUpdate{
		Phone:   " 06 12 34 56 78 ",
		Address: "12 rue du Soleil, 32000 Auch",
		PdlPrm:  "12 34 56 78 90 12 34",
		IBAN:    "fr14 2004 1010 0505 0001 3m02 606",
		BIC:     "psstfrppxxx",
	})
	if err != nil {
		t.Fatalf("ApplyProfile() error: %v", err)
	}

	u, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if u.PdlPrm != "12345678901234" {
		t.Errorf("PdlPrm = %q, want digits only", u.PdlPrm)
	}
	if u.BankDetails.IBAN != "FR1420041010050500013M02606" {
		t.Errorf("IBAN = %q, want normalized uppercase", u.BankDetails.IBAN)
	}
	if u.BankDetails.BIC != "PSSTFRPPXXX" {
		t.Errorf("BIC = %q", u.BankDetails.BIC)
	}
	if u.Phone != "06 12 34 56 78" {
		t.Errorf("Phone = %q", u.Phone)
	}
}

func TestUpdateContactKeepsBankDetails(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, userstore.NewUser{
		FullName: "Marie", Email: "marie@example.fr", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	err = store.ApplyProfile(ctx, created.ID, userstore.ProfileUpdate{
		Phone: "0612345678", Address: "a", PdlPrm: "12345678901234",
		IBAN: "FR1420041010050500013M02606", BIC: "PSSTFRPPXXX",
	})
	if err != nil {
		t.Fatalf("ApplyProfile() error: %v", err)
	}

	if err := store.UpdateContact(ctx, created.ID, "0698765432", "3 avenue du Gers, 32000 Auch"); err != nil {
		t.Fatalf("UpdateContact() error: %v", err)
	}

	u, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if u.Phone != "0698765432" {
		t.Errorf("Phone = %q", u.Phone)
	}
	if u.BankDetails.IBAN != "FR1420041010050500013M02606" {
		t.Error("UpdateContact must not touch banking details")
	}
}

func TestListOrderAndPaging(t *testing.T) {
	store, db := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateMember(ctx, "Zoé Bernard", "zoe@example.fr")
	f.CreateMember(ctx, "Émile Aron", "emile@example.fr")
	f.CreateMember(ctx, "Marie Dupont", "marie@example.fr")

	users, err := store.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	// Folded sort ignores the accent on Émile.
	if users[0].FullName != "Émile Aron" {
		t.Errorf("first user = %q, want Émile Aron", users[0].FullName)
	}

	rest, err := store.List(ctx, 3, 2)
	if err != nil {
		t.Fatalf("List() page 2 error: %v", err)
	}
	if len(rest) != 1 || rest[0].FullName != "Zoé Bernard" {
		t.Errorf("page 2 = %+v, want only Zoé Bernard", rest)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}
