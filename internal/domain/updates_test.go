package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUpdatesApply(t *testing.T) {
	s := NewSession(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	updates := []FieldUpdate{
		DemographicsUpdate{Field: FieldLastName, Value: "Martin"},
		DemographicsUpdate{Field: FieldFirstName, Value: "Paul"},
		DemographicsUpdate{Field: FieldBirthdate, Value: "1970-04-12"},
		DemographicsUpdate{Field: FieldGender, Value: "M"},
		DemographicsUpdate{Field: FieldProfession, Value: "Chauffeur"},
		ConsultationUpdate{Field: FieldHeight, Value: "180"},
		ConsultationUpdate{Field: FieldWeight, Value: "100"},
		ConsultationUpdate{Field: FieldNeckCircumference, Value: "44"},
		ConsultationUpdate{Field: FieldSmoking, Value: "actuel"},
		ConsultationUpdate{Field: FieldAlcohol, Value: "20"},
		ConsultationUpdate{Field: FieldMallampatiScore, Value: "III"},
		ConsultationUpdate{Field: FieldTonsilSize, Value: "2"},
		AntecedentUpdate{Flag: AntecedentHTA, Value: true},
		SymptomUpdate{Flag: SymptomRonflements, Value: true},
		HistoryFlagUpdate{Flag: FlagGERD, Value: true},
		HistoryFlagUpdate{Flag: FlagMotivationBilanPreOp, Value: true},
		SleepinessUpdate{Value: 8},
	}

	for _, u := range updates {
		require.NoError(t, u.Apply(s), "update %T", u)
	}

	assert.Equal(t, "Martin", s.Demographics.LastName)
	assert.Equal(t, GenderMale, s.Demographics.Gender)
	assert.Equal(t, "1970-04-12", s.Demographics.Birthdate)
	assert.Equal(t, "180", s.ConsultationData.Height)
	assert.Equal(t, SmokingCurrent, s.ConsultationData.Smoking)
	assert.Equal(t, "III", s.ConsultationData.MallampatiScore)
	assert.Equal(t, "2", s.ConsultationData.TonsilSize)
	assert.True(t, s.ConsultationData.Antecedents.HTA)
	assert.True(t, s.ConsultationData.Symptoms.Ronflements)
	assert.True(t, s.ConsultationData.GERD)
	assert.True(t, s.ConsultationData.MotivationBilanPreOp)
	assert.Equal(t, 8, s.ConsultationData.SleepinessScale)
}

func TestFieldUpdatesRejectInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		update FieldUpdate
	}{
		{"unknown demographics field", DemographicsUpdate{Field: "nickname", Value: "x"}},
		{"invalid gender", DemographicsUpdate{Field: FieldGender, Value: "X"}},
		{"invalid birthdate", DemographicsUpdate{Field: FieldBirthdate, Value: "12/04/1970"}},
		{"invalid report date", ConsultationUpdate{Field: FieldConsultationDate, Value: "demain"}},
		{"unknown consultation field", ConsultationUpdate{Field: "bloodType", Value: "A"}},
		{"invalid smoking", ConsultationUpdate{Field: FieldSmoking, Value: "parfois"}},
		{"invalid mallampati", ConsultationUpdate{Field: FieldMallampatiScore, Value: "V"}},
		{"invalid tonsil", ConsultationUpdate{Field: FieldTonsilSize, Value: "5"}},
		{"unknown antecedent", AntecedentUpdate{Flag: "asthme", Value: true}},
		{"unknown symptom", SymptomUpdate{Flag: "toux", Value: true}},
		{"unknown flag", HistoryFlagUpdate{Flag: "motivationAutre", Value: true}},
		{"sleepiness too low", SleepinessUpdate{Value: 0}},
		{"sleepiness too high", SleepinessUpdate{Value: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(time.Now())
			before := s.Clone()

			err := tt.update.Apply(s)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, before, s, "a rejected update must not change the session")
		})
	}
}

func TestFieldUpdatesClearOptionalValues(t *testing.T) {
	s := NewSession(time.Now())
	require.NoError(t, DemographicsUpdate{Field: FieldGender, Value: "F"}.Apply(s))
	require.NoError(t, DemographicsUpdate{Field: FieldGender, Value: ""}.Apply(s))
	require.NoError(t, ConsultationUpdate{Field: FieldConsultationDate, Value: ""}.Apply(s))
	require.NoError(t, ConsultationUpdate{Field: FieldMallampatiScore, Value: ""}.Apply(s))

	assert.Equal(t, GenderUnset, s.Demographics.Gender)
	assert.Empty(t, s.ConsultationData.ConsultationDate)
	assert.Empty(t, s.ConsultationData.MallampatiScore)
}

func TestUpdateCategories(t *testing.T) {
	assert.Equal(t, CategoryDemographics, DemographicsUpdate{}.Category())
	assert.Equal(t, CategoryConsultation, ConsultationUpdate{}.Category())
	assert.Equal(t, CategoryAntecedent, AntecedentUpdate{}.Category())
	assert.Equal(t, CategorySymptom, SymptomUpdate{}.Category())
	assert.Equal(t, CategoryHistoryFlag, HistoryFlagUpdate{}.Category())
	assert.Equal(t, CategorySleepiness, SleepinessUpdate{}.Category())
}
