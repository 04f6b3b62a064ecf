package adminapplications_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mapartdesoleil/soleilhub/internal/app/features/adminapplications"
	uierrors "github.com/mapartdesoleil/soleilhub/internal/app/features/errors"
	applicationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/applications"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"github.com/mapartdesoleil/soleilhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*adminapplications.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return adminapplications.NewHandler(db, uierrors.NewErrorLogger(logger), logger), db
}

func seedApplication(t *testing.T, db *mongo.Database, status adhesion.Status) models.Application {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	user := f.CreateMember(ctx, "Marie Dupont", "marie@example.fr")
	project := f.CreateProject(ctx, "project-gers-1", "Centrale du Gers")
	return f.CreateApplication(ctx, user, project, status)
}

func adminPost(target, id string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.AdminUser())
	return testutil.WithChiURLParam(req, "id", id)
}

func TestHandleApprove(t *testing.T) {
	handler, db := newTestHandler(t)
	app := seedApplication(t, db, adhesion.StatusPending)

	rec := httptest.NewRecorder()
	req := adminPost("/admin/applications/"+app.ID.Hex()+"/approve", app.ID.Hex(), url.Values{})
	handler.HandleApprove(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/applications" {
		t.Errorf("Location = %q", loc)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := applicationstore.New(db, zap.NewNop()).GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != adhesion.StatusAwaitingSignature {
		t.Errorf("Status = %q, want awaiting_signature", got.Status)
	}
}

func TestHandleApprove_AlreadyHandled(t *testing.T) {
	handler, db := newTestHandler(t)
	app := seedApplication(t, db, adhesion.StatusRejected)

	rec := httptest.NewRecorder()
	req := adminPost("/admin/applications/"+app.ID.Hex()+"/approve", app.ID.Hex(), url.Values{})

	// Handler will try to render the forbidden page which may panic
	// without initialized templates
	func() {
		defer func() { recover() }()
		handler.HandleApprove(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("a handled dossier must not be approved again")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := applicationstore.New(db, zap.NewNop()).GetByID(ctx, app.ID)
	if got.Status != adhesion.StatusRejected {
		t.Errorf("Status = %q, want rejected unchanged", got.Status)
	}
}

func TestHandleReject_WithReason(t *testing.T) {
	handler, db := newTestHandler(t)
	app := seedApplication(t, db, adhesion.StatusPending)

	rec := httptest.NewRecorder()
	req := adminPost("/admin/applications/"+app.ID.Hex()+"/reject", app.ID.Hex(),
		url.Values{"reason": {`PDL hors périmètre <b>gras</b>`}})
	handler.HandleReject(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := applicationstore.New(db, zap.NewNop()).GetByID(ctx, app.ID)
	if got.Status != adhesion.StatusRejected {
		t.Errorf("Status = %q, want rejected", got.Status)
	}
}

func TestHandleRequestInfo(t *testing.T) {
	handler, db := newTestHandler(t)
	app := seedApplication(t, db, adhesion.StatusPending)

	rec := httptest.NewRecorder()
	req := adminPost("/admin/applications/"+app.ID.Hex()+"/request_info", app.ID.Hex(),
		url.Values{"message": {"Veuillez vérifier votre numéro PDL."}})
	handler.HandleRequestInfo(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := applicationstore.New(db, zap.NewNop()).GetByID(ctx, app.ID)
	if got.Status != adhesion.StatusInfoRequested {
		t.Errorf("Status = %q, want info_requested", got.Status)
	}
	if got.InfoMessage != "Veuillez vérifier votre numéro PDL." {
		t.Errorf("InfoMessage = %q", got.InfoMessage)
	}
}

func TestHandleRequestInfo_EmptyMessageIsNoOp(t *testing.T) {
	handler, db := newTestHandler(t)
	app := seedApplication(t, db, adhesion.StatusPending)

	rec := httptest.NewRecorder()
	req := adminPost("/admin/applications/"+app.ID.Hex()+"/request_info", app.ID.Hex(),
		url.Values{"message": {"   "}})
	handler.HandleRequestInfo(rec, req)

	// Back to the dossier, nothing changed.
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/applications/"+app.ID.Hex() {
		t.Errorf("Location = %q, want the dossier page", loc)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := applicationstore.New(db, zap.NewNop()).GetByID(ctx, app.ID)
	if got.Status != adhesion.StatusPending {
		t.Errorf("Status = %q, want pending unchanged", got.Status)
	}
}

func TestLoad_BadID(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := adminPost("/admin/applications/not-an-id/approve", "not-an-id", url.Values{})

	// Handler will try to render the not-found page which may panic
	// without initialized templates
	func() {
		defer func() { recover() }()
		handler.HandleApprove(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("a malformed id must not succeed")
	}
}
