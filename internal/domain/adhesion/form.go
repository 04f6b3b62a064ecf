// internal/domain/adhesion/form.go
package adhesion

import (
	"errors"

	"github.com/mapartdesoleil/soleilhub/internal/app/system/normalize"
	"github.com/mapartdesoleil/soleilhub/internal/app/system/validators"
)

// The draft phase of the workflow is a three-step form. Each step has a
// typed input struct validated before the workflow accepts it; a failed
// validation blocks advancement and names the offending field.

// FieldError is a validation failure attributable to a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// AsFieldError unwraps err as a *FieldError if it is one.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Step1 collects the delivery point and contact details.
type Step1 struct {
	PdlPrm  string
	Address string
	Phone   string
}

// Validate checks the step-1 contract: a PDL/PRM of exactly 14 digits
// and non-empty address and phone.
func (s Step1) Validate() error {
	if !validators.PdlPrm(s.PdlPrm) {
		return &FieldError{Field: "pdl_prm", Message: "Le PDL/PRM doit contenir exactement 14 chiffres."}
	}
	if s.Address == "" {
		return &FieldError{Field: "address", Message: "L'adresse est obligatoire."}
	}
	if s.Phone == "" {
		return &FieldError{Field: "phone", Message: "Le numéro de téléphone est obligatoire."}
	}
	if !validators.Phone(s.Phone) {
		return &FieldError{Field: "phone", Message: "Le numéro de téléphone est invalide."}
	}
	return nil
}

// Step2 collects the banking details for the SEPA mandate.
type Step2 struct {
	IBAN string
	BIC  string
}

// Validate checks the step-2 contract: the IBAN must pass the mod-97
// checksum and the BIC the ISO 9362 shape, since these values end up on
// a SEPA mandate.
func (s Step2) Validate() error {
	if s.IBAN == "" {
		return &FieldError{Field: "iban", Message: "L'IBAN est obligatoire."}
	}
	if !validators.IBAN(s.IBAN) {
		return &FieldError{Field: "iban", Message: "L'IBAN est invalide."}
	}
	if s.BIC == "" {
		return &FieldError{Field: "bic", Message: "Le BIC est obligatoire."}
	}
	if !validators.BIC(s.BIC) {
		return &FieldError{Field: "bic", Message: "Le BIC est invalide."}
	}
	return nil
}

// Step3 is the confirmation step.
type Step3 struct {
	Consent bool
}

// Validate requires the explicit consent checkbox before submission.
func (s Step3) Validate() error {
	if !s.Consent {
		return &FieldError{Field: "consent", Message: "Veuillez accepter les conditions générales d'adhésion."}
	}
	return nil
}

// Form is the fully collected draft, ready for submission.
type Form struct {
	Step1
	Step2
	Step3
}

// Normalized returns a copy with the identifier fields canonicalized.
// Invoices print the PDL/PRM in digit groups and IBANs in spaced
// lowercase groups of four; Validate expects the canonical forms, so
// every entry point normalizes before validating.
func (f Form) Normalized() Form {
	f.Step1.PdlPrm = normalize.PdlPrm(f.Step1.PdlPrm)
	f.Step1.Address = normalize.Name(f.Step1.Address)
	f.Step1.Phone = normalize.Phone(f.Step1.Phone)
	f.Step2.IBAN = normalize.IBAN(f.Step2.IBAN)
	f.Step2.BIC = normalize.BIC(f.Step2.BIC)
	return f
}

// Validate re-runs every step contract. Submission re-validates the
// whole draft server-side regardless of what the step round-trips saw.
func (f Form) Validate() error {
	if err := f.Step1.Validate(); err != nil {
		return err
	}
	if err := f.Step2.Validate(); err != nil {
		return err
	}
	return f.Step3.Validate()
}
