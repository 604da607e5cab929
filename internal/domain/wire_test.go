package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireUpdate_Decode(t *testing.T) {
	tests := []struct {
		name string
		wire WireUpdate
		want FieldUpdate
	}{
		{
			name: "demographics text",
			wire: WireUpdate{Category: CategoryDemographics, Field: "lastname", Value: "Durand"},
			want: DemographicsUpdate{Field: FieldLastName, Value: "Durand"},
		},
		{
			name: "consultation numeric value becomes text",
			wire: WireUpdate{Category: CategoryConsultation, Field: "height", Value: 172.5},
			want: ConsultationUpdate{Field: FieldHeight, Value: "172.5"},
		},
		{
			name: "antecedent bool",
			wire: WireUpdate{Category: CategoryAntecedent, Field: "hta", Value: true},
			want: AntecedentUpdate{Flag: AntecedentHTA, Value: true},
		},
		{
			name: "symptom string bool",
			wire: WireUpdate{Category: CategorySymptom, Field: "fatigue", Value: "true"},
			want: SymptomUpdate{Flag: SymptomFatigue, Value: true},
		},
		{
			name: "history flag",
			wire: WireUpdate{Category: CategoryHistoryFlag, Field: "motivationBilanPreOp", Value: false},
			want: HistoryFlagUpdate{Flag: FlagMotivationBilanPreOp, Value: false},
		},
		{
			name: "sleepiness from json number",
			wire: WireUpdate{Category: CategorySleepiness, Value: float64(7)},
			want: SleepinessUpdate{Value: 7},
		},
		{
			name: "sleepiness leading zero is decimal",
			wire: WireUpdate{Category: CategorySleepiness, Value: "08"},
			want: SleepinessUpdate{Value: 8},
		},
		{
			name: "sleepiness padded string",
			wire: WireUpdate{Category: CategorySleepiness, Value: " 10 "},
			want: SleepinessUpdate{Value: 10},
		},
		{
			name: "sleepiness integral float",
			wire: WireUpdate{Category: CategorySleepiness, Value: "9.0"},
			want: SleepinessUpdate{Value: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.wire.Decode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWireUpdate_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		wire WireUpdate
	}{
		{"unknown category", WireUpdate{Category: "vitals", Field: "pulse", Value: 60}},
		{"flag not a boolean", WireUpdate{Category: CategorySymptom, Field: "fatigue", Value: "often"}},
		{"sleepiness not a number", WireUpdate{Category: CategorySleepiness, Value: "high"}},
		{"sleepiness fraction", WireUpdate{Category: CategorySleepiness, Value: 7.9}},
		{"sleepiness fraction string", WireUpdate{Category: CategorySleepiness, Value: "7.5"}},
		{"sleepiness boolean", WireUpdate{Category: CategorySleepiness, Value: true}},
		{"text from object", WireUpdate{Category: CategoryDemographics, Field: "lastname", Value: map[string]int{"a": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.wire.Decode()
			require.Error(t, err)
			assert.Equal(t, ErrCodeValidation, ErrorCode(err))
		})
	}
}

func TestDecodeUpdates(t *testing.T) {
	updates, err := DecodeUpdates([]WireUpdate{
		{Category: CategoryDemographics, Field: "firstname", Value: "Claire"},
		{Category: CategorySleepiness, Value: "3"},
	})
	require.NoError(t, err)
	assert.Len(t, updates, 2)

	_, err = DecodeUpdates([]WireUpdate{
		{Category: CategoryDemographics, Field: "firstname", Value: "Claire"},
		{Category: "bogus"},
	})
	assert.Error(t, err)
}
