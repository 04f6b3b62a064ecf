// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BankDetails carries the direct-debit coordinates collected during the
// adhesion banking step and used for the SEPA mandate.
type BankDetails struct {
	IBAN string `bson:"iban,omitempty" json:"iban,omitempty"`
	BIC  string `bson:"bic,omitempty" json:"bic,omitempty"`
}

// User represents both members and administrators.
//
// Profile fields (phone, address, PDL/PRM, bank details) are copied from
// the most recently submitted adhesion form: last-submitted values win.
// Applications are NOT embedded here; use the applications collection.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	Role   string `bson:"role" json:"role"` // admin | member
	Status string `bson:"status,omitempty" json:"status,omitempty"`

	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`

	// PdlPrm is the 14-digit delivery-point identifier linking the user's
	// meter to a project (Point De Livraison / Point de Référence Mesure).
	PdlPrm string `bson:"pdl_prm,omitempty" json:"pdl_prm,omitempty"`

	BankDetails BankDetails `bson:"bank_details,omitempty" json:"bank_details,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
