// Package domain contains the core entities of the obstructive sleep apnea (SAHOS)
// intake: patient demographics, consultation data, questionnaire scores, the
// synthesized conclusion and the persisted session that ties them together.
package domain

import (
	"errors"
)

// QuestionnaireType identifies one of the standardized screening questionnaires.
type QuestionnaireType string

const (
	Epworth  QuestionnaireType = "epworth"
	Berlin   QuestionnaireType = "berlin"
	StopBang QuestionnaireType = "stopBang"
	FOSQ10   QuestionnaireType = "fosq10"
)

// QuestionnaireTypes lists every questionnaire in catalog order.
var QuestionnaireTypes = []QuestionnaireType{Epworth, Berlin, StopBang, FOSQ10}

// Gender is the administrative sex captured on the identity step.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderUnset  Gender = ""
)

// SmokingStatus captures tobacco exposure.
type SmokingStatus string

const (
	SmokingNone    SmokingStatus = "non"
	SmokingCurrent SmokingStatus = "actuel"
	SmokingFormer  SmokingStatus = "ancien"
	SmokingUnset   SmokingStatus = ""
)

// RiskLevel is the final suspicion tier of the conclusion. The type stays an open
// string so that persisted sessions carrying extended levels still load.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Faible"
	RiskModerate RiskLevel = "Modéré"
	RiskHigh     RiskLevel = "Élevé"
)

// StepID is the 1-based index of an intake step.
type StepID int

const (
	StepIdentity       StepID = 1
	StepHistory        StepID = 2
	StepClinical       StepID = 3
	StepQuestionnaires StepID = 4
	StepConclusion     StepID = 5
)

// StepCount is the number of intake steps.
const StepCount = 5

var (
	ErrNotFound               = errors.New("not found")
	ErrUnknownQuestionnaire   = errors.New("unknown questionnaire")
	ErrInvalidStep            = errors.New("invalid step")
	ErrStepLocked             = errors.New("step is not reachable yet")
	ErrNoConclusion           = errors.New("no conclusion has been generated")
	ErrResetNotConfirmed      = errors.New("reset was not confirmed")
	ErrInvalidGender          = errors.New("invalid gender")
	ErrInvalidSmokingStatus   = errors.New("invalid smoking status")
	ErrInvalidMallampati      = errors.New("invalid Mallampati class")
	ErrInvalidTonsilGrade     = errors.New("invalid tonsil grade")
	ErrInvalidSleepinessScale = errors.New("sleepiness scale must be between 1 and 10")
)

// IsValid reports whether the questionnaire belongs to the catalog.
func (q QuestionnaireType) IsValid() bool {
	switch q {
	case Epworth, Berlin, StopBang, FOSQ10:
		return true
	default:
		return false
	}
}

func (q QuestionnaireType) String() string {
	return string(q)
}

// IsValid accepts the unset value, since gender is optional until step 1 is validated.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnset:
		return true
	default:
		return false
	}
}

// Label returns the French label used in questionnaire context lines.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Homme"
	case GenderFemale:
		return "Femme"
	default:
		return "Non spécifié"
	}
}

// Adjective returns the form used in the report identity sentence.
func (g Gender) Adjective() string {
	switch g {
	case GenderMale:
		return "masculin"
	case GenderFemale:
		return "féminin"
	default:
		return "non spécifié"
	}
}

func (s SmokingStatus) IsValid() bool {
	switch s {
	case SmokingNone, SmokingCurrent, SmokingFormer, SmokingUnset:
		return true
	default:
		return false
	}
}

func (r RiskLevel) String() string {
	return string(r)
}

// LogFields returns structured logging fields for the audit trail.
func (r RiskLevel) LogFields() map[string]any {
	return map[string]any{
		"risk_level":        string(r),
		"requires_referral": r == RiskHigh,
	}
}

// IsValid reports whether the step is within 1..StepCount.
func (s StepID) IsValid() bool {
	return s >= StepIdentity && s <= StepConclusion
}

// MallampatiClasses are the accepted airway classes; empty means not assessed.
var MallampatiClasses = []string{"", "I", "II", "III", "IV"}

// TonsilGrades are the accepted Friedman tonsil grades; empty means not assessed.
var TonsilGrades = []string{"", "0", "1", "2", "3", "4"}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
