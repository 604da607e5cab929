package questionnaire

import (
	"fmt"
	"strings"
	"time"

	"github.com/sahos-screening-server/internal/domain"
)

// Condition names a display rule of a question. Conditions are data so the
// catalog can be serialized and tested without closures.
type Condition string

const (
	ConditionAlways            Condition = ""
	ConditionMaleOnly          Condition = "maleOnly"
	ConditionShowBMI           Condition = "showBMI"
	ConditionShowAge           Condition = "showAge"
	ConditionShowNeckAndGender Condition = "showNeckAndGender"
	ConditionShowGender        Condition = "showGender"
)

// ConditionResult tells whether a question is shown and what context line goes above it.
type ConditionResult struct {
	Visible bool
	Context string
}

// Evaluate applies a condition to the form data. Unknown conditions are treated
// as always visible.
func Evaluate(cond Condition, demographics domain.PatientDemographics, consultation domain.ConsultationData, now time.Time) ConditionResult {
	switch cond {
	case ConditionMaleOnly:
		return ConditionResult{Visible: demographics.Gender == domain.GenderMale}
	case ConditionShowBMI:
		return ConditionResult{
			Visible: true,
			Context: fmt.Sprintf("IMC calculé : %s kg/m²", domain.FormatBMI(consultation.Height, consultation.Weight)),
		}
	case ConditionShowAge:
		age := domain.NotAvailable
		if strings.TrimSpace(demographics.Birthdate) != "" {
			age = fmt.Sprintf("%d", domain.Age(demographics.Birthdate, now))
		}
		return ConditionResult{Visible: true, Context: fmt.Sprintf("Âge calculé : %s ans", age)}
	case ConditionShowNeckAndGender:
		neck := strings.TrimSpace(consultation.NeckCircumference)
		if neck == "" {
			neck = domain.NotAvailable
		}
		return ConditionResult{
			Visible: true,
			Context: fmt.Sprintf("Tour de cou : %s cm, Sexe : %s", neck, demographics.Gender.Label()),
		}
	case ConditionShowGender:
		return ConditionResult{Visible: true, Context: "Sexe : " + demographics.Gender.Label()}
	default:
		return ConditionResult{Visible: true}
	}
}
