package applicationstore_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	notificationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/notifications"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"github.com/mapartdesoleil/soleilhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newStore(t *testing.T) (*applicationstore.Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return applicationstore.New(db, zap.NewNop()), db
}

func validForm() adhesion.Form {
	return adhesion.Form{
		Step1: adhesion.Step1{
			PdlPrm:  "12 34 56 78 90 12 34",
			Address: "12 rue du Soleil, 32000 Auch",
			Phone:   "0612345678",
		},
		Step2: adhesion.Step2{
			IBAN: "fr14 2004 1010 0505 0001 3m02 606",
			BIC:  "psstfrppxxx",
		},
		Step3: adhesion.Step3{Consent: true},
	}
}

func TestSubmit(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie Dupont", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")

	app, err := store.Submit(ctx, user.ID, project.ID, validForm())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if app.Status != adhesion.StatusPending {
		t.Errorf("Status = %q, want pending", app.Status)
	}
	if app.Reference == "" {
		t.Error("Reference should be assigned")
	}
	if app.UserName != "Marie Dupont" || app.ProjectName != "Centrale du Gers" {
		t.Errorf("denormalized names wrong: %q / %q", app.UserName, app.ProjectName)
	}
	if app.PdlPrm != "12345678901234" {
		t.Errorf("PdlPrm = %q, want normalized", app.PdlPrm)
	}
	if app.IBAN != "FR1420041010050500013M02606" {
		t.Errorf("IBAN = %q, want normalized", app.IBAN)
	}
	if len(app.Documents) != 2 {
		t.Errorf("Documents = %d entries, want contract + mandate", len(app.Documents))
	}
	for _, d := range app.Documents {
		if d.Uploaded {
			t.Errorf("document %q should start not uploaded", d.Name)
		}
	}

	// Submission copies the form onto the member's profile.
	u, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if u.PdlPrm != "12345678901234" || u.BankDetails.IBAN != "FR1420041010050500013M02606" {
		t.Errorf("profile not updated: pdl=%q iban=%q", u.PdlPrm, u.BankDetails.IBAN)
	}

	// And notifies the admin inbox.
	inbox, err := notificationstore.New(db).ListForRecipient(ctx, models.AdminRecipient)
	if err != nil {
		t.Fatalf("ListForRecipient() error: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Title != "Nouvelle demande d'adhésion" {
		t.Errorf("admin inbox = %+v", inbox)
	}
}

func TestSubmitInvalidForm(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")

	form := validForm()
	form.Consent = false
	if _, err := store.Submit(ctx, user.ID, project.ID, form); err == nil {
		t.Fatal("Submit() without consent should fail")
	}

	// Nothing was written.
	if n, _ := store.CountByStatus(ctx, adhesion.StatusPending); n != 0 {
		t.Errorf("pending count = %d, want 0", n)
	}
}

func TestSubmitDuplicateGuard(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")

	if _, err := store.Submit(ctx, user.ID, project.ID, validForm()); err != nil {
		t.Fatalf("first Submit() error: %v", err)
	}
	if _, err := store.Submit(ctx, user.ID, project.ID, validForm()); !errors.Is(err, applicationstore.ErrDuplicatePending) {
		t.Errorf("second Submit() error = %v, want ErrDuplicatePending", err)
	}

	// A rejected application frees the slot.
	apps, _ := store.ListForUser(ctx, user.ID)
	if _, err := store.Reject(ctx, apps[0].ID, ""); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if _, err := store.Submit(ctx, user.ID, project.ID, validForm()); err != nil {
		t.Errorf("Submit() after rejection error: %v", err)
	}
}

func TestSubmitProjectFull(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")

	projects := projectstore.New(db)
	if err := projects.UpdateByID(ctx, project.ID, projectstore.Update{
		Name:            project.Name,
		MaxParticipants: 1,
	}); err != nil {
		t.Fatalf("UpdateByID() error: %v", err)
	}
	if err := projects.IncParticipants(ctx, project.ID, 1); err != nil {
		t.Fatalf("IncParticipants() error: %v", err)
	}

	_, err := store.Submit(ctx, user.ID, project.ID, validForm())
	if !errors.Is(err, applicationstore.ErrProjectFull) {
		t.Errorf("Submit() error = %v, want ErrProjectFull", err)
	}
}

func TestApprove(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	app := f.CreateApplication(ctx, user, project, adhesion.StatusPending)

	got, err := store.Approve(ctx, app.ID)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if got.Status != adhesion.StatusAwaitingSignature {
		t.Errorf("Status = %q, want awaiting_signature", got.Status)
	}

	// The member is told where to sign.
	inbox, _ := notificationstore.New(db).ListForRecipient(ctx, user.ID.Hex())
	if len(inbox) != 1 || inbox[0].Title != "Demande acceptée" {
		t.Fatalf("member inbox = %+v", inbox)
	}
	if inbox[0].ActionLink != "/signature/"+app.ID.Hex() {
		t.Errorf("ActionLink = %q", inbox[0].ActionLink)
	}

	// A second approval finds the dossier already handled.
	if _, err := store.Approve(ctx, app.ID); !errors.Is(err, applicationstore.ErrBadTransition) {
		t.Errorf("second Approve() error = %v, want ErrBadTransition", err)
	}
}

func TestReject(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	app := f.CreateApplication(ctx, user, project, adhesion.StatusPending)

	got, err := store.Reject(ctx, app.ID, "PDL hors périmètre")
	if err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if got.Status != adhesion.StatusRejected {
		t.Errorf("Status = %q, want rejected", got.Status)
	}

	inbox, _ := notificationstore.New(db).ListForRecipient(ctx, user.ID.Hex())
	if len(inbox) != 1 {
		t.Fatalf("member inbox = %+v", inbox)
	}
	if want := "Motif : PDL hors périmètre"; !strings.Contains(inbox[0].Message, want) {
		t.Errorf("Message = %q, want to contain %q", inbox[0].Message, want)
	}

	// Rejection is terminal.
	if _, err := store.Approve(ctx, app.ID); !errors.Is(err, applicationstore.ErrBadTransition) {
		t.Errorf("Approve() after rejection error = %v, want ErrBadTransition", err)
	}
}

func TestRequestInfoAndResubmit(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	app := f.CreateApplication(ctx, user, project, adhesion.StatusPending)

	// An information request needs a message.
	if _, err := store.RequestInfo(ctx, app.ID, ""); err == nil {
		t.Fatal("RequestInfo() with empty message should fail")
	}

	got, err := store.RequestInfo(ctx, app.ID, "Veuillez vérifier votre numéro PDL.")
	if err != nil {
		t.Fatalf("RequestInfo() error: %v", err)
	}
	if got.Status != adhesion.StatusInfoRequested {
		t.Errorf("Status = %q, want info_requested", got.Status)
	}
	if got.InfoMessage != "Veuillez vérifier votre numéro PDL." {
		t.Errorf("InfoMessage = %q", got.InfoMessage)
	}

	// Only the owner can resubmit.
	stranger := primitive.NewObjectID()
	if _, err := store.Resubmit(ctx, app.ID, stranger, validForm()); !errors.Is(err, applicationstore.ErrNotFound) {
		t.Errorf("Resubmit() by stranger error = %v, want ErrNotFound", err)
	}

	form := validForm()
	form.PdlPrm = "98765432109876"
	resubmitted, err := store.Resubmit(ctx, app.ID, user.ID, form)
	if err != nil {
		t.Fatalf("Resubmit() error: %v", err)
	}
	if resubmitted.Status != adhesion.StatusPending {
		t.Errorf("Status after resubmit = %q, want pending", resubmitted.Status)
	}
	if resubmitted.InfoMessage != "" {
		t.Errorf("InfoMessage should be cleared, got %q", resubmitted.InfoMessage)
	}
	if resubmitted.PdlPrm != "98765432109876" {
		t.Errorf("PdlPrm = %q, want replaced", resubmitted.PdlPrm)
	}

	// Resubmitting again from pending is not allowed.
	if _, err := store.Resubmit(ctx, app.ID, user.ID, form); !errors.Is(err, applicationstore.ErrBadTransition) {
		t.Errorf("second Resubmit() error = %v, want ErrBadTransition", err)
	}
}

func TestSignSurface(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	app := f.CreateApplication(ctx, user, project, adhesion.StatusAwaitingSignature)

	const img = "data:image/png;base64,iVBORw0KGgo="

	got, err := store.SignSurface(ctx, app.ID, user.ID, "contract", img)
	if err != nil {
		t.Fatalf("SignSurface(contract) error: %v", err)
	}
	if !got.Signature.ContractSigned || got.Signature.SepaSigned {
		t.Errorf("signature state = %+v, want contract only", got.Signature)
	}

	if _, err := store.SignSurface(ctx, app.ID, user.ID, "letter", img); err == nil {
		t.Error("unknown surface should fail")
	}

	// Only the owner can sign.
	stranger := primitive.NewObjectID()
	if _, err := store.SignSurface(ctx, app.ID, stranger, "sepa", img); !errors.Is(err, applicationstore.ErrNotFound) {
		t.Errorf("SignSurface() by stranger error = %v, want ErrNotFound", err)
	}

	// A pending dossier has no signature surfaces yet.
	pending := f.CreateApplication(ctx, user, f.CreateProject(ctx, "project-dordogne-1", "Soleil de Dordogne"), adhesion.StatusPending)
	if _, err := store.SignSurface(ctx, pending.ID, user.ID, "contract", img); !errors.Is(err, applicationstore.ErrBadTransition) {
		t.Errorf("SignSurface() on pending error = %v, want ErrBadTransition", err)
	}
}

func TestFinalizeSignature(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	app := f.CreateApplication(ctx, user, project, adhesion.StatusAwaitingSignature)

	const img = "data:image/png;base64,iVBORw0KGgo="

	// Finalizing with one surface signed is refused.
	if _, err := store.SignSurface(ctx, app.ID, user.ID, "contract", img); err != nil {
		t.Fatalf("SignSurface() error: %v", err)
	}
	if _, err := store.FinalizeSignature(ctx, app.ID, user.ID); !errors.Is(err, applicationstore.ErrBadTransition) {
		t.Errorf("FinalizeSignature() with one signature error = %v, want ErrBadTransition", err)
	}

	if _, err := store.SignSurface(ctx, app.ID, user.ID, "sepa", img); err != nil {
		t.Fatalf("SignSurface() error: %v", err)
	}
	got, err := store.FinalizeSignature(ctx, app.ID, user.ID)
	if err != nil {
		t.Fatalf("FinalizeSignature() error: %v", err)
	}
	if got.Status != adhesion.StatusActive {
		t.Errorf("Status = %q, want active", got.Status)
	}
	if got.Signature.SignedAt == nil {
		t.Error("SignedAt should be set")
	}
	for _, d := range got.Documents {
		if !d.Uploaded {
			t.Errorf("document %q should be marked uploaded", d.Name)
		}
	}

	// Active memberships bump the project counter.
	p, err := projectstore.New(db).GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if p.Participants != 1 {
		t.Errorf("Participants = %d, want 1", p.Participants)
	}

	// Both sides are notified.
	ns := notificationstore.New(db)
	memberInbox, _ := ns.ListForRecipient(ctx, user.ID.Hex())
	if len(memberInbox) != 1 || memberInbox[0].Title != "Bienvenue dans votre projet solaire" {
		t.Errorf("member inbox = %+v", memberInbox)
	}
	adminInbox, _ := ns.ListForRecipient(ctx, models.AdminRecipient)
	if len(adminInbox) != 1 || adminInbox[0].Title != "Adhésion finalisée" {
		t.Errorf("admin inbox = %+v", adminInbox)
	}

	// A stale tab cannot activate twice.
	if _, err := store.FinalizeSignature(ctx, app.ID, user.ID); !errors.Is(err, applicationstore.ErrBadTransition) {
		t.Errorf("second FinalizeSignature() error = %v, want ErrBadTransition", err)
	}
	if p, _ := projectstore.New(db).GetByID(ctx, project.ID); p.Participants != 1 {
		t.Errorf("Participants after replay = %d, want 1", p.Participants)
	}
}

func TestGetForUserScoping(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := f.CreateMember(ctx, "Marie", "marie@example.fr")
	other := f.CreateMember(ctx, "Jean", "jean@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	app := f.CreateApplication(ctx, user, project, adhesion.StatusPending)

	if _, err := store.GetForUser(ctx, app.ID, user.ID); err != nil {
		t.Errorf("owner GetForUser() error: %v", err)
	}
	if _, err := store.GetForUser(ctx, app.ID, other.ID); !errors.Is(err, applicationstore.ErrNotFound) {
		t.Errorf("stranger GetForUser() error = %v, want ErrNotFound", err)
	}
}

func TestQueueOrdering(t *testing.T) {
	store, db := newStore(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	u1 := f.CreateMember(ctx, "Premier", "p1@example.fr")
	u2 := f.CreateMember(ctx, "Second", "p2@example.fr")
	a1 := f.CreateApplication(ctx, u1, project, adhesion.StatusPending)
	time.Sleep(5 * time.Millisecond) // distinct submitted_at timestamps
	a2 := f.CreateApplication(ctx, u2, project, adhesion.StatusPending)

	queue, err := store.ListByStatus(ctx, adhesion.StatusPending)
	if err != nil {
		t.Fatalf("ListByStatus() error: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue = %d entries, want 2", len(queue))
	}
	// Oldest first: the admin reviews in arrival order.
	if queue[0].ID != a1.ID || queue[1].ID != a2.ID {
		t.Error("queue should be ordered oldest first")
	}

	n, err := store.CountByStatus(ctx, adhesion.StatusPending)
	if err != nil || n != 2 {
		t.Errorf("CountByStatus() = %d, %v; want 2", n, err)
	}
}
