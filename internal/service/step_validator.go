package service

import (
	"fmt"
	"strings"

	"github.com/sahos-screening-server/internal/domain"
)

// User-facing messages of the step gate.
const (
	MissingFieldsMessage         = "Veuillez remplir tous les champs obligatoires de cette étape."
	MissingQuestionnairesMessage = "Veuillez compléter au moins les questionnaires d'Epworth et STOP-BANG pour continuer."
)

// ValidateStep checks that a step holds the minimum data required to move past it.
// A failure is a *domain.ValidationError carrying the message to display.
func ValidateStep(step domain.StepID, s *domain.Session) error {
	switch step {
	case domain.StepIdentity:
		d := s.Demographics
		required := map[string]string{
			"lastname":         d.LastName,
			"firstname":        d.FirstName,
			"birthdate":        d.Birthdate,
			"gender":           string(d.Gender),
			"consultationDate": s.ConsultationData.ConsultationDate,
		}
		for _, field := range []string{"lastname", "firstname", "birthdate", "gender", "consultationDate"} {
			if strings.TrimSpace(required[field]) == "" {
				return domain.NewValidationError(field, MissingFieldsMessage, nil)
			}
		}
		return nil
	case domain.StepHistory, domain.StepConclusion:
		return nil
	case domain.StepClinical:
		if !s.ConsultationData.HasMotivation() {
			return domain.NewValidationError("motivation", MissingFieldsMessage, nil)
		}
		return nil
	case domain.StepQuestionnaires:
		for _, t := range []domain.QuestionnaireType{domain.Epworth, domain.StopBang} {
			if _, ok := s.QuestionnaireScores.Get(t); !ok {
				return domain.NewValidationError(string(t), MissingQuestionnairesMessage, nil)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", domain.ErrInvalidStep, step)
	}
}
