// internal/domain/models/application.go
package models

import (
	"time"

	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationDocument is a document attached to an application
// (the adhesion contract, the SEPA mandate, supporting uploads).
type ApplicationDocument struct {
	Name     string `bson:"name" json:"name"`
	Uploaded bool   `bson:"uploaded" json:"uploaded"`
}

// SignatureState tracks the two electronic signature surfaces.
//
// The captured images are stored as PNG data URLs; they are small
// (a few KB of stroke data) and live inside the application document.
type SignatureState struct {
	ContractSigned bool       `bson:"contract_signed" json:"contract_signed"`
	SepaSigned     bool       `bson:"sepa_signed" json:"sepa_signed"`
	ContractImage  string     `bson:"contract_image,omitempty" json:"-"`
	SepaImage      string     `bson:"sepa_image,omitempty" json:"-"`
	SignedAt       *time.Time `bson:"signed_at,omitempty" json:"signed_at,omitempty"`
}

// Application is a member's request to join a project.
//
// Status is mutated only by the admin review console, by member
// resubmission after an information request, and by signature
// finalization. UserName and ProjectName are denormalized for the admin
// queue and notification texts.
type Application struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Reference is the human-facing dossier number shown to the member
	// and quoted in correspondence.
	Reference string `bson:"reference" json:"reference"`

	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName string             `bson:"user_name" json:"user_name"`

	ProjectID   string `bson:"project_id" json:"project_id"`
	ProjectName string `bson:"project_name" json:"project_name"`

	Status adhesion.Status `bson:"status" json:"status"`

	// Collected form data, frozen at submission time.
	PdlPrm  string `bson:"pdl_prm" json:"pdl_prm"`
	Address string `bson:"address" json:"address"`
	Phone   string `bson:"phone" json:"phone"`
	IBAN    string `bson:"iban" json:"iban"`
	BIC     string `bson:"bic" json:"bic"`

	Documents []ApplicationDocument `bson:"documents,omitempty" json:"documents,omitempty"`
	Signature SignatureState        `bson:"signature" json:"signature"`

	// InfoMessage holds the latest admin request for more information,
	// shown on the member dashboard until resubmission.
	InfoMessage string `bson:"info_message,omitempty" json:"info_message,omitempty"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
