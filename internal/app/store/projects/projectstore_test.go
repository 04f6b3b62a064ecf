package projectstore_test

import (
	"errors"
	"testing"

	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"github.com/mapartdesoleil/soleilhub/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Project{
		ID:                  "project-gers-1",
		Name:                "  Centrale du Gers ",
		Location:            "Gers (32), France",
		PowerKWC:            280,
		AnnualProductionMWH: 315,
		Latitude:            43.65,
		Longitude:           0.59,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.Name != "Centrale du Gers" {
		t.Errorf("Name = %q, want trimmed", created.Name)
	}
	if created.NameCI != "centrale du gers" {
		t.Errorf("NameCI = %q", created.NameCI)
	}

	got, err := store.GetByID(ctx, "project-gers-1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.PowerKWC != 280 {
		t.Errorf("PowerKWC = %v", got.PowerKWC)
	}

	if _, err := store.GetByID(ctx, "no-such-project"); !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bad := []models.Project{
		{ID: "Project-Gers", Name: "x"},   // uppercase slug
		{ID: "project gers", Name: "x"},   // space in slug
		{ID: "-project-gers", Name: "x"},  // leading dash
		{ID: "project-gers-1", Name: " "}, // blank name
	}
	for _, p := range bad {
		if _, err := store.Create(ctx, p); err == nil {
			t.Errorf("Create(%q, %q) should have failed", p.ID, p.Name)
		}
	}
}

func TestCreateDuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := models.Project{ID: "project-gers-1", Name: "Centrale du Gers"}
	if _, err := store.Create(ctx, p); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	if _, err := store.Create(ctx, p); !errors.Is(err, projectstore.ErrDuplicateID) {
		t.Errorf("second Create() error = %v, want ErrDuplicateID", err)
	}
}

func TestUpdateByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Project{ID: "project-gers-1", Name: "Centrale du Gers"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err := store.UpdateByID(ctx, "project-gers-1", projectstore.Update{
		Name:            "Centrale du Gers II",
		MaxParticipants: 120,
		ConsumerTariff:  0.11,
	})
	if err != nil {
		t.Fatalf("UpdateByID() error: %v", err)
	}

	got, err := store.GetByID(ctx, "project-gers-1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Name != "Centrale du Gers II" || got.MaxParticipants != 120 {
		t.Errorf("update not applied: %+v", got)
	}

	if err := store.UpdateByID(ctx, "missing", projectstore.Update{Name: "x"}); !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("UpdateByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestIncParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Project{ID: "project-gers-1", Name: "Centrale du Gers"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := store.IncParticipants(ctx, "project-gers-1", 1); err != nil {
		t.Fatalf("IncParticipants() error: %v", err)
	}
	if err := store.IncParticipants(ctx, "project-gers-1", 1); err != nil {
		t.Fatalf("IncParticipants() error: %v", err)
	}

	got, err := store.GetByID(ctx, "project-gers-1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Participants != 2 {
		t.Errorf("Participants = %d, want 2", got.Participants)
	}
}

func TestListSortedAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, p := range []models.Project{
		{ID: "project-dordogne-1", Name: "Soleil de Dordogne"},
		{ID: "project-gers-1", Name: "Centrale du Gers"},
	} {
		if _, err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) error: %v", p.ID, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "project-gers-1" {
		t.Errorf("List() order wrong: %+v", list)
	}

	n, err := store.Delete(ctx, "project-gers-1")
	if err != nil || n != 1 {
		t.Fatalf("Delete() = %d, %v", n, err)
	}
	if c, _ := store.Count(ctx); c != 1 {
		t.Errorf("Count() after delete = %d, want 1", c)
	}
}
