package questionnaire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahos-screening-server/internal/domain"
)

func allAnswers(def *Definition, value int) Answers {
	answers := Answers{}
	for _, q := range def.Questions {
		answers[q.ID] = value
	}
	return answers
}

func TestScoreSumsAnswers(t *testing.T) {
	now := time.Now()
	tests := []struct {
		typ   domain.QuestionnaireType
		value int
		want  int
	}{
		{domain.Epworth, 3, 24},
		{domain.Epworth, 0, 0},
		{domain.Berlin, 1, 5},
		{domain.StopBang, 1, 8},
		{domain.FOSQ10, 4, 40},
		{domain.FOSQ10, 1, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			def, err := Lookup(tt.typ)
			require.NoError(t, err)

			got, err := Score(def, allAnswers(def, tt.value), domain.PatientDemographics{}, domain.ConsultationData{}, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	def, _ := Lookup(domain.Epworth)
	answers := Answers{"ep_q1": 1, "ep_q2": 2, "ep_q3": 0, "ep_q4": 3, "ep_q5": 3, "ep_q6": 0, "ep_q7": 1, "ep_q8": 2}

	first, err := Score(def, answers, domain.PatientDemographics{}, domain.ConsultationData{}, time.Now())
	require.NoError(t, err)
	second, err := Score(def, answers, domain.PatientDemographics{}, domain.ConsultationData{}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 12, first)
	assert.Equal(t, first, second)
}

func TestScoreRejectsIncompleteSubmission(t *testing.T) {
	def, _ := Lookup(domain.StopBang)
	answers := allAnswers(def, 1)
	delete(answers, "g")

	_, err := Score(def, answers, domain.PatientDemographics{}, domain.ConsultationData{}, time.Now())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, IncompleteMessage, verr.Message)
	assert.Equal(t, "g", verr.Field)
}

func TestScoreRejectsUnknownQuestion(t *testing.T) {
	def, _ := Lookup(domain.Berlin)
	answers := allAnswers(def, 0)
	answers["b_q9"] = 1

	_, err := Score(def, answers, domain.PatientDemographics{}, domain.ConsultationData{}, time.Now())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "berlin", verr.Field)
}

func TestScoreRejectsValueOutsideOptions(t *testing.T) {
	def, _ := Lookup(domain.FOSQ10)
	answers := allAnswers(def, 4)
	answers["fosq_q3"] = 0

	_, err := Score(def, answers, domain.PatientDemographics{}, domain.ConsultationData{}, time.Now())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fosq_q3", verr.Field)
}

func TestScoreIgnoresHiddenQuestions(t *testing.T) {
	def := &Definition{
		Type: "custom",
		Questions: []Question{
			{ID: "q1", Options: yesNoOptions},
			{ID: "q2", Options: yesNoOptions, Condition: ConditionMaleOnly},
		},
		ScoreLabel: "Score",
		Tiers:      []Tier{{Max: 2, Label: "any"}},
	}
	female := domain.PatientDemographics{Gender: domain.GenderFemale}

	got, err := Score(def, Answers{"q1": 1}, female, domain.ConsultationData{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = Score(def, Answers{"q1": 1, "q2": 1}, female, domain.ConsultationData{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, got, "answers to hidden questions do not count")

	_, err = Score(def, Answers{"q1": 1}, domain.PatientDemographics{Gender: domain.GenderMale}, domain.ConsultationData{}, time.Now())
	assert.Error(t, err)
}
