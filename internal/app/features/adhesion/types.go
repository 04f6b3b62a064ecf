// internal/app/features/adhesion/types.go
package adhesion

import (
	"net/http"

	"github.com/mapartdesoleil/soleilhub/internal/app/system/formutil"
	"github.com/mapartdesoleil/soleilhub/internal/domain/adhesion"
	"github.com/mapartdesoleil/soleilhub/internal/domain/models"
)

// stepData is the view model shared by the three step templates. Form
// values from earlier steps ride along in hidden fields.
type stepData struct {
	formutil.Base
	Project models.Project
	Step    int

	// ResubmitID is set when the form answers an information request;
	// empty for a first submission.
	ResubmitID  string
	InfoMessage string

	// Step 1
	PdlPrm  string
	Address string
	Phone   string

	// Step 2
	IBAN string
	BIC  string

	// Field highlighted by the last validation failure.
	ErrorField string
}

func (d *stepData) setBase(r *http.Request, project models.Project) {
	formutil.SetBase(&d.Base, r, "Adhésion · "+project.Name, "/projects/"+project.ID)
}

// readForm collects the draft fields posted so far, canonicalized so
// the printed formats (grouped PDL digits, spaced lowercase IBAN)
// validate and echo back in canonical form.
func readForm(r *http.Request) adhesion.Form {
	return adhesion.Form{
		Step1: adhesion.Step1{
			PdlPrm:  r.FormValue("pdl_prm"),
			Address: r.FormValue("address"),
			Phone:   r.FormValue("phone"),
		},
		Step2: adhesion.Step2{
			IBAN: r.FormValue("iban"),
			BIC:  r.FormValue("bic"),
		},
		Step3: adhesion.Step3{
			Consent: r.FormValue("consent") == "on",
		},
	}.Normalized()
}

func (d *stepData) fill(f adhesion.Form) {
	d.PdlPrm = f.Step1.PdlPrm
	d.Address = f.Step1.Address
	d.Phone = f.Step1.Phone
	d.IBAN = f.Step2.IBAN
	d.BIC = f.Step2.BIC
}

func (d *stepData) setFieldError(err error) {
	if fe, ok := adhesion.AsFieldError(err); ok {
		d.ErrorField = fe.Field
		d.SetError(fe.Message)
		return
	}
	d.SetError(err.Error())
}
