// Package applicationstore persists adhesion applications and owns the
// workflow transitions: submission, admin review outcomes, member
// resubmission after an information request, and signature finalization.
package applicationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	notificationstore "github.com/mapartdesoleil/soleilhub/internal/app/store/notifications"
	projectstore "github.com/mapartdesoleil/soleilhub/internal/app/store/projects"
	userstore "github.com/mapartdesoleil/soleilhub/internal/app/store/users"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/txn"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c      *mongo.Collection
	client *mongo.Client
	log    *zap.Logger

	users         *userstore.Store
	projects      *projectstore.Store
	notifications *notificationstore.Store
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		c:             db.Collection("applications"),
		client:        db.Client(),
		log:           logger,
		users:         userstore.New(db),
		projects:      projectstore.New(db),
		notifications: notificationstore.New(db),
	}
}

var (
	// ErrNotFound is returned when no application matches the lookup.
	ErrNotFound = errors.New("application not found")
	// ErrDuplicatePending is returned when the member already has an
	// open (not rejected) application for the project.
	ErrDuplicatePending = errors.New("an application for this project is already in progress")
	// ErrBadTransition is returned when the requested status change is
	// not allowed from the application's current status.
	ErrBadTransition = errors.New("the application is not in a state that allows this action")
	// ErrProjectFull is returned when the project has reached its
	// participant cap.
	ErrProjectFull = errors.New("this project has reached its participant limit")
)

// defaultDocuments are the dossier pieces every application starts
// with; they are marked uploaded as the workflow progresses.
func defaultDocuments() []models.ApplicationDocument {
	return []models.ApplicationDocument{
		{Name: "Contrat d'adhésion", Uploaded: false},
		{Name: "Mandat de prélèvement SEPA", Uploaded: false},
	}
}

// Submit runs the adhesion submission as one unit: duplicate guard,
// participant-cap check, application insert, profile copy onto the
// user, and the admin notification. On replica sets the unit runs in a
// transaction; elsewhere it runs sequentially with the application
// insert first and the admin notification last.
func (s *Store) Submit(ctx context.Context, userID primitive.ObjectID, projectID string, form adhesion.Form) (models.Application, error) {
	form = form.Normalized()
	if err := form.Validate(); err != nil {
		return models.Application{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Application{}, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return models.Application{}, err
	}
	if project.MaxParticipants > 0 && project.Participants >= project.MaxParticipants {
		return models.Application{}, ErrProjectFull
	}

	open, err := s.c.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"project_id": projectID,
		"status":     bson.M{"$ne": adhesion.StatusRejected},
	})
	if err != nil {
		return models.Application{}, err
	}
	if open > 0 {
		return models.Application{}, ErrDuplicatePending
	}

	now := time.Now().UTC()
	app := models.Application{
		Reference:   uuid.NewString(),
		UserID:      userID,
		UserName:    user.FullName,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Status:      adhesion.StatusPending,
		PdlPrm:      form.Step1.PdlPrm,
		Address:     form.Step1.Address,
		Phone:       form.Step1.Phone,
		IBAN:        form.Step2.IBAN,
		BIC:         form.Step2.BIC,
		Documents:   defaultDocuments(),
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	err = txn.WithTransaction(ctx, s.client, s.log, func(tc context.Context) error {
		res, err := s.c.InsertOne(tc, app)
		if err != nil {
			if wafflemongo.IsDup(err) {
				return ErrDuplicatePending
			}
			return err
		}
		app.ID = res.InsertedID.(primitive.ObjectID)

		if err := s.users.ApplyProfile(tc, userID, userstore.ProfileUpdate{
			Phone:   form.Step1.Phone,
			Address: form.Step1.Address,
			PdlPrm:  form.Step1.PdlPrm,
			IBAN:    form.Step2.IBAN,
			BIC:     form.Step2.BIC,
		}); err != nil {
			return err
		}

		_, err = s.notifications.Push(tc, models.AdminRecipient,
			"Nouvelle demande d'adhésion",
			fmt.Sprintf("%s a soumis une demande pour le projet %s.", user.FullName, project.Name),
			"/admin/applications")
		return err
	})
	if err != nil {
		return models.Application{}, err
	}

	s.log.Info("application submitted",
		zap.String("reference", app.Reference),
		zap.String("project", app.ProjectID),
		zap.String("user", userID.Hex()))
	return app, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetForUser loads an application only if it belongs to the user.
func (s *Store) GetForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Application, error) {
	var a models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListForUser returns the member's applications, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Application
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStatus returns applications in a status, oldest first, for the
// admin review queue.
func (s *Store) ListByStatus(ctx context.Context, status adhesion.Status) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Application
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every application, newest first, for the admin export.
func (s *Store) ListAll(ctx context.Context) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Application
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByStatus powers the admin dashboard counters.
func (s *Store) CountByStatus(ctx context.Context, status adhesion.Status) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// setStatus applies a guarded transition: the update filter requires a
// status the workflow allows to move to the target, so a concurrent
// change that left the allowed set makes the update a no-op and the
// caller sees ErrBadTransition. Between two admins racing the same
// allowed transition, last write wins.
func (s *Store) setStatus(ctx context.Context, id primitive.ObjectID, to adhesion.Status, extra bson.M) (*models.Application, error) {
	var allowed []adhesion.Status
	for _, from := range []adhesion.Status{
		adhesion.StatusPending,
		adhesion.StatusInfoRequested,
		adhesion.StatusAwaitingSignature,
	} {
		if adhesion.CanTransition(from, to) {
			allowed = append(allowed, from)
		}
	}

	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	for k, v := range extra {
		set[k] = v
	}

	var a models.Application
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": allowed}},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if _, gerr := s.GetByID(ctx, id); gerr != nil {
				return nil, gerr
			}
			return nil, ErrBadTransition
		}
		return nil, err
	}
	return &a, nil
}

// Approve moves a pending application to awaiting signature and
// notifies the member with a link to the signature page.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	a, err := s.setStatus(ctx, id, adhesion.StatusAwaitingSignature, bson.M{"info_message": ""})
	if err != nil {
		return nil, err
	}
	_, err = s.notifications.Push(ctx, a.UserID.Hex(),
		"Demande acceptée",
		fmt.Sprintf("Votre demande pour le projet %s a été acceptée. Vous pouvez maintenant signer votre contrat.", a.ProjectName),
		fmt.Sprintf("/signature/%s", a.ID.Hex()))
	if err != nil {
		s.log.Warn("approval notification failed", zap.Error(err))
	}
	return a, nil
}

// Reject refuses a pending application. reason may be empty.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID, reason string) (*models.Application, error) {
	a, err := s.setStatus(ctx, id, adhesion.StatusRejected, bson.M{"info_message": ""})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Votre demande pour le projet %s a été refusée.", a.ProjectName)
	if reason != "" {
		msg = fmt.Sprintf("%s Motif : %s", msg, reason)
	}
	_, err = s.notifications.Push(ctx, a.UserID.Hex(), "Demande refusée", msg, "/dashboard")
	if err != nil {
		s.log.Warn("rejection notification failed", zap.Error(err))
	}
	return a, nil
}

// RequestInfo asks the member for more information. The message must be
// non-empty; callers sanitize it before storage.
func (s *Store) RequestInfo(ctx context.Context, id primitive.ObjectID, message string) (*models.Application, error) {
	if message == "" {
		return nil, errors.New("an information request needs a message")
	}
	a, err := s.setStatus(ctx, id, adhesion.StatusInfoRequested, bson.M{"info_message": message})
	if err != nil {
		return nil, err
	}
	_, err = s.notifications.Push(ctx, a.UserID.Hex(),
		"Information complémentaire demandée",
		fmt.Sprintf("Concernant votre demande pour le projet %s : %s", a.ProjectName, message),
		"/dashboard")
	if err != nil {
		s.log.Warn("info-request notification failed", zap.Error(err))
	}
	return a, nil
}

// Resubmit lets the member answer an information request: the form is
// re-validated, the frozen fields are replaced, and the application
// returns to pending. Only the owner can resubmit, and only from
// info_requested.
func (s *Store) Resubmit(ctx context.Context, id, userID primitive.ObjectID, form adhesion.Form) (*models.Application, error) {
	form = form.Normalized()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var a models.Application
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID, "status": adhesion.StatusInfoRequested},
		bson.M{"$set": bson.M{
			"status":       adhesion.StatusPending,
			"info_message": "",
			"pdl_prm":      form.Step1.PdlPrm,
			"address":      form.Step1.Address,
			"phone":        form.Step1.Phone,
			"iban":         form.Step2.IBAN,
			"bic":          form.Step2.BIC,
			"updated_at":   time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if _, gerr := s.GetForUser(ctx, id, userID); gerr != nil {
				return nil, gerr
			}
			return nil, ErrBadTransition
		}
		return nil, err
	}

	if err := s.users.ApplyProfile(ctx, userID, userstore.ProfileUpdate{
		Phone:   form.Step1.Phone,
		Address: form.Step1.Address,
		PdlPrm:  form.Step1.PdlPrm,
		IBAN:    form.Step2.IBAN,
		BIC:     form.Step2.BIC,
	}); err != nil {
		return nil, err
	}

	_, err = s.notifications.Push(ctx, models.AdminRecipient,
		"Demande mise à jour",
		fmt.Sprintf("%s a complété sa demande pour le projet %s.", a.UserName, a.ProjectName),
		"/admin/applications")
	if err != nil {
		s.log.Warn("resubmission notification failed", zap.Error(err))
	}
	return &a, nil
}

// SignSurface records one signature surface ("contract" or "sepa") on
// an application awaiting signature. image is the captured PNG data URL.
func (s *Store) SignSurface(ctx context.Context, id, userID primitive.ObjectID, surface, image string) (*models.Application, error) {
	var set bson.M
	switch surface {
	case "contract":
		set = bson.M{"signature.contract_signed": true, "signature.contract_image": image}
	case "sepa":
		set = bson.M{"signature.sepa_signed": true, "signature.sepa_image": image}
	default:
		return nil, fmt.Errorf("unknown signature surface %q", surface)
	}
	set["updated_at"] = time.Now().UTC()

	var a models.Application
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID, "status": adhesion.StatusAwaitingSignature},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if _, gerr := s.GetForUser(ctx, id, userID); gerr != nil {
				return nil, gerr
			}
			return nil, ErrBadTransition
		}
		return nil, err
	}
	return &a, nil
}

// FinalizeSignature activates the membership once both surfaces are
// signed. Guarded on awaiting_signature plus both signature flags, so a
// double submit or a stale tab cannot activate twice.
func (s *Store) FinalizeSignature(ctx context.Context, id, userID primitive.ObjectID) (*models.Application, error) {
	now := time.Now().UTC()
	var a models.Application
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":                       id,
			"user_id":                   userID,
			"status":                    adhesion.StatusAwaitingSignature,
			"signature.contract_signed": true,
			"signature.sepa_signed":     true,
		},
		bson.M{"$set": bson.M{
			"status":                 adhesion.StatusActive,
			"signature.signed_at":    now,
			"documents.$[].uploaded": true,
			"updated_at":             now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if _, gerr := s.GetForUser(ctx, id, userID); gerr != nil {
				return nil, gerr
			}
			return nil, ErrBadTransition
		}
		return nil, err
	}

	if err := s.projects.IncParticipants(ctx, a.ProjectID, 1); err != nil {
		s.log.Warn("participant counter update failed",
			zap.String("project", a.ProjectID), zap.Error(err))
	}

	_, err = s.notifications.Push(ctx, models.AdminRecipient,
		"Adhésion finalisée",
		fmt.Sprintf("%s a signé son contrat pour le projet %s.", a.UserName, a.ProjectName),
		"/admin/applications")
	if err != nil {
		s.log.Warn("finalization notification failed", zap.Error(err))
	}

	_, err = s.notifications.Push(ctx, a.UserID.Hex(),
		"Bienvenue dans votre projet solaire",
		fmt.Sprintf("Votre adhésion au projet %s est maintenant active.", a.ProjectName),
		"/dashboard")
	if err != nil {
		s.log.Warn("welcome notification failed", zap.Error(err))
	}
	return &a, nil
}
