package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	now := time.Date(2025, time.March, 9, 14, 0, 0, 0, time.UTC)
	s := NewSession(now)

	assert.Equal(t, StepIdentity, s.CurrentStep)
	assert.Empty(t, s.CompletedSteps)
	assert.NotNil(t, s.QuestionnaireScores)
	assert.Nil(t, s.AppConclusion)
	assert.Equal(t, DefaultSleepinessScale, s.ConsultationData.SleepinessScale)
	assert.Equal(t, "2025-03-09", s.ConsultationData.ConsultationDate)
}

func TestMarkCompletedKeepsStrictlyIncreasingSet(t *testing.T) {
	s := NewSession(time.Now())
	for _, step := range []StepID{3, 1, 2, 3, 1} {
		s.MarkCompleted(step)
	}
	assert.Equal(t, []StepID{1, 2, 3}, s.CompletedSteps)
	assert.True(t, s.IsCompleted(StepHistory))
	assert.False(t, s.IsCompleted(StepQuestionnaires))
}

func TestNormalizeRepairsStoredSession(t *testing.T) {
	s := &Session{
		CurrentStep:    9,
		CompletedSteps: []StepID{4, 0, 2, 2, 7, 1},
	}
	s.Normalize()

	assert.Equal(t, StepIdentity, s.CurrentStep)
	assert.Equal(t, []StepID{1, 2, 4}, s.CompletedSteps)
	assert.NotNil(t, s.QuestionnaireScores)
}

func TestNormalizeResetsInvalidEnums(t *testing.T) {
	s := &Session{
		Demographics: PatientDemographics{LastName: "Durand", Gender: "X"},
		ConsultationData: ConsultationData{
			Smoking:         "foo",
			MallampatiScore: "V",
			TonsilSize:      "9",
			SleepinessScale: 42,
		},
		QuestionnaireScores: QuestionnaireScores{Epworth: 12, "psqi": 3},
		CurrentStep:         StepHistory,
	}
	s.Normalize()

	assert.Equal(t, GenderUnset, s.Demographics.Gender)
	assert.Equal(t, "Durand", s.Demographics.LastName)
	assert.Equal(t, SmokingUnset, s.ConsultationData.Smoking)
	assert.Empty(t, s.ConsultationData.MallampatiScore)
	assert.Empty(t, s.ConsultationData.TonsilSize)
	assert.Equal(t, DefaultSleepinessScale, s.ConsultationData.SleepinessScale)
	assert.Equal(t, QuestionnaireScores{Epworth: 12}, s.QuestionnaireScores)
	assert.Equal(t, StepHistory, s.CurrentStep)
}

func TestNormalizeKeepsValidValues(t *testing.T) {
	s := &Session{
		Demographics: PatientDemographics{Gender: GenderFemale},
		ConsultationData: ConsultationData{
			Smoking:         SmokingFormer,
			MallampatiScore: "III",
			TonsilSize:      "2",
			SleepinessScale: 8,
		},
	}
	s.Normalize()

	assert.Equal(t, GenderFemale, s.Demographics.Gender)
	assert.Equal(t, SmokingFormer, s.ConsultationData.Smoking)
	assert.Equal(t, "III", s.ConsultationData.MallampatiScore)
	assert.Equal(t, "2", s.ConsultationData.TonsilSize)
	assert.Equal(t, 8, s.ConsultationData.SleepinessScale)
}

func TestSetScoreOverwrites(t *testing.T) {
	s := &Session{}
	s.SetScore(Epworth, 4)
	s.SetScore(Epworth, 12)

	score, ok := s.QuestionnaireScores.Get(Epworth)
	assert.True(t, ok)
	assert.Equal(t, 12, score)

	_, ok = s.QuestionnaireScores.Get(Berlin)
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSession(time.Now())
	s.SetScore(StopBang, 3)
	s.MarkCompleted(StepIdentity)
	s.AppConclusion = &AppConclusion{Summary: []string{"a"}, Recommendations: []string{"b"}, RiskLevel: RiskModerate}

	c := s.Clone()
	c.SetScore(StopBang, 7)
	c.MarkCompleted(StepHistory)
	c.AppConclusion.Summary[0] = "changed"

	assert.Equal(t, 3, s.QuestionnaireScores[StopBang])
	assert.Equal(t, []StepID{StepIdentity}, s.CompletedSteps)
	assert.Equal(t, "a", s.AppConclusion.Summary[0])
}

func TestSessionJSONShape(t *testing.T) {
	s := NewSession(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Demographics.LastName = "Durand"
	s.SetScore(Epworth, 12)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"demographics", "consultationData", "questionnaireScores", "appConclusion", "currentStep", "completedSteps"} {
		assert.Contains(t, generic, key)
	}
	assert.Equal(t, map[string]any{"epworth": float64(12)}, generic["questionnaireScores"])
	assert.Equal(t, "Durand", generic["demographics"].(map[string]any)["lastname"])
}

func TestHasMotivation(t *testing.T) {
	c := ConsultationData{}
	assert.False(t, c.HasMotivation())

	c.ExplorationReasonOther = "   "
	assert.False(t, c.HasMotivation())

	c.ExplorationReasonOther = "Bilan d'insomnie"
	assert.True(t, c.HasMotivation())

	c = ConsultationData{MotivationHTAResistante: true}
	assert.True(t, c.HasMotivation())
}
