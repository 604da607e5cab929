package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// WireUpdate is the transport form of a FieldUpdate, as sent by the HTTP API and
// the MCP tools. Field is ignored for the sleepiness category.
type WireUpdate struct {
	Category UpdateCategory `json:"category"`
	Field    string         `json:"field,omitempty"`
	Value    interface{}    `json:"value"`
}

// Decode converts the wire form into a typed FieldUpdate. Text values accept any
// scalar, flags accept booleans or "true"/"false", the sleepiness scale accepts
// numbers or numeric strings.
func (w WireUpdate) Decode() (FieldUpdate, error) {
	switch w.Category {
	case CategoryDemographics:
		v, err := cast.ToStringE(w.Value)
		if err != nil {
			return nil, NewValidationError(w.Field, "expected a text value", w.Value)
		}
		return DemographicsUpdate{Field: DemographicsField(w.Field), Value: v}, nil
	case CategoryConsultation:
		v, err := cast.ToStringE(w.Value)
		if err != nil {
			return nil, NewValidationError(w.Field, "expected a text value", w.Value)
		}
		return ConsultationUpdate{Field: ConsultationField(w.Field), Value: v}, nil
	case CategoryAntecedent, CategorySymptom, CategoryHistoryFlag:
		v, err := cast.ToBoolE(w.Value)
		if err != nil {
			return nil, NewValidationError(w.Field, "expected a boolean value", w.Value)
		}
		switch w.Category {
		case CategoryAntecedent:
			return AntecedentUpdate{Flag: AntecedentFlag(w.Field), Value: v}, nil
		case CategorySymptom:
			return SymptomUpdate{Flag: SymptomFlag(w.Field), Value: v}, nil
		default:
			return HistoryFlagUpdate{Flag: HistoryFlag(w.Field), Value: v}, nil
		}
	case CategorySleepiness:
		v, err := decodeScale(w.Value)
		if err != nil {
			return nil, NewValidationError("sleepinessScale", ErrInvalidSleepinessScale.Error(), w.Value)
		}
		return SleepinessUpdate{Value: v}, nil
	default:
		return nil, NewValidationError("category", fmt.Sprintf("unknown update category %q", w.Category), w.Category)
	}
}

// decodeScale reads a whole number in base 10. Fractions and booleans are rejected.
func decodeScale(value interface{}) (int, error) {
	if _, ok := value.(bool); ok {
		return 0, fmt.Errorf("boolean is not a scale value")
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not a whole number", value)
	}
	return int(f), nil
}

// DecodeUpdates decodes a batch, stopping at the first malformed entry.
func DecodeUpdates(wire []WireUpdate) ([]FieldUpdate, error) {
	updates := make([]FieldUpdate, 0, len(wire))
	for _, w := range wire {
		u, err := w.Decode()
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, nil
}
