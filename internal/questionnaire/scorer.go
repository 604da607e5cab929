package questionnaire

import (
	"fmt"
	"sort"
	"time"

	"github.com/sahos-screening-server/internal/domain"
)

// IncompleteMessage is shown when a submission does not answer every visible question.
const IncompleteMessage = "Veuillez répondre à toutes les questions."

// Answers maps a question id to the chosen option value.
type Answers map[string]int

// Score sums the answers of a submission. Every visible question must be answered
// with one of its option values; answers to hidden questions are ignored and
// unknown question ids are rejected.
func Score(def *Definition, answers Answers, demographics domain.PatientDemographics, consultation domain.ConsultationData, now time.Time) (int, error) {
	known := make(map[string]bool, len(def.Questions))
	for _, q := range def.Questions {
		known[q.ID] = true
	}

	var unknown []string
	for id := range answers {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, domain.NewValidationError(string(def.Type), fmt.Sprintf("unknown question ids: %v", unknown), unknown)
	}

	total := 0
	for _, q := range def.Questions {
		if !Evaluate(q.Condition, demographics, consultation, now).Visible {
			continue
		}
		value, ok := answers[q.ID]
		if !ok {
			return 0, domain.NewValidationError(q.ID, IncompleteMessage, nil)
		}
		if !q.HasOption(value) {
			return 0, domain.NewValidationError(q.ID, fmt.Sprintf("value %d is not an option of question %s", value, q.ID), value)
		}
		total += value
	}
	return total, nil
}
