package domain

import (
	"fmt"
	"strings"
)

// FieldUpdate is one edit of the intake form. The set of implementations is closed:
// each data category has its own update type with a named field enumeration.
type FieldUpdate interface {
	Apply(s *Session) error
	// Category names the data category for logs and wire payloads.
	Category() UpdateCategory
}

// UpdateCategory tags a FieldUpdate on the wire.
type UpdateCategory string

const (
	CategoryDemographics UpdateCategory = "demographics"
	CategoryConsultation UpdateCategory = "consultation"
	CategoryAntecedent   UpdateCategory = "antecedent"
	CategorySymptom      UpdateCategory = "symptom"
	CategoryHistoryFlag  UpdateCategory = "flag"
	CategorySleepiness   UpdateCategory = "sleepiness"
)

// DemographicsField enumerates the editable identity fields.
type DemographicsField string

const (
	FieldLastName   DemographicsField = "lastname"
	FieldFirstName  DemographicsField = "firstname"
	FieldBirthdate  DemographicsField = "birthdate"
	FieldGender     DemographicsField = "gender"
	FieldProfession DemographicsField = "profession"
)

// DemographicsUpdate sets one identity field.
type DemographicsUpdate struct {
	Field DemographicsField
	Value string
}

func (u DemographicsUpdate) Category() UpdateCategory { return CategoryDemographics }

func (u DemographicsUpdate) Apply(s *Session) error {
	d := &s.Demographics
	switch u.Field {
	case FieldLastName:
		d.LastName = u.Value
	case FieldFirstName:
		d.FirstName = u.Value
	case FieldBirthdate:
		if err := validateDate(string(u.Field), u.Value); err != nil {
			return err
		}
		d.Birthdate = strings.TrimSpace(u.Value)
	case FieldGender:
		g := Gender(strings.TrimSpace(u.Value))
		if !g.IsValid() {
			return NewValidationError(string(u.Field), ErrInvalidGender.Error(), u.Value)
		}
		d.Gender = g
	case FieldProfession:
		d.Profession = u.Value
	default:
		return NewValidationError(string(u.Field), "unknown demographics field", u.Value)
	}
	return nil
}

// ConsultationField enumerates the text, numeric and enum fields at the root of
// the consultation data.
type ConsultationField string

const (
	FieldHeight                 ConsultationField = "height"
	FieldWeight                 ConsultationField = "weight"
	FieldNeckCircumference      ConsultationField = "neckCircumference"
	FieldCurrentTreatments      ConsultationField = "currentTreatments"
	FieldSmoking                ConsultationField = "smoking"
	FieldAlcohol                ConsultationField = "alcohol"
	FieldMallampatiScore        ConsultationField = "mallampatiScore"
	FieldTonsilSize             ConsultationField = "tonsilSize"
	FieldExplorationReasonOther ConsultationField = "explorationReasonOther"
	FieldConsultationDate       ConsultationField = "consultationDate"
)

// ConsultationUpdate sets one root consultation field. Measures are stored as typed;
// malformed numbers are tolerated and degrade when used.
type ConsultationUpdate struct {
	Field ConsultationField
	Value string
}

func (u ConsultationUpdate) Category() UpdateCategory { return CategoryConsultation }

func (u ConsultationUpdate) Apply(s *Session) error {
	c := &s.ConsultationData
	switch u.Field {
	case FieldHeight:
		c.Height = u.Value
	case FieldWeight:
		c.Weight = u.Value
	case FieldNeckCircumference:
		c.NeckCircumference = u.Value
	case FieldCurrentTreatments:
		c.CurrentTreatments = u.Value
	case FieldAlcohol:
		c.Alcohol = u.Value
	case FieldExplorationReasonOther:
		c.ExplorationReasonOther = u.Value
	case FieldSmoking:
		status := SmokingStatus(strings.TrimSpace(u.Value))
		if !status.IsValid() {
			return NewValidationError(string(u.Field), ErrInvalidSmokingStatus.Error(), u.Value)
		}
		c.Smoking = status
	case FieldMallampatiScore:
		v := strings.TrimSpace(u.Value)
		if !containsString(MallampatiClasses, v) {
			return NewValidationError(string(u.Field), ErrInvalidMallampati.Error(), u.Value)
		}
		c.MallampatiScore = v
	case FieldTonsilSize:
		v := strings.TrimSpace(u.Value)
		if !containsString(TonsilGrades, v) {
			return NewValidationError(string(u.Field), ErrInvalidTonsilGrade.Error(), u.Value)
		}
		c.TonsilSize = v
	case FieldConsultationDate:
		if err := validateDate(string(u.Field), u.Value); err != nil {
			return err
		}
		c.ConsultationDate = strings.TrimSpace(u.Value)
	default:
		return NewValidationError(string(u.Field), "unknown consultation field", u.Value)
	}
	return nil
}

// AntecedentFlag enumerates the structured medical history flags.
type AntecedentFlag string

const (
	AntecedentHTA           AntecedentFlag = "hta"
	AntecedentDiabete       AntecedentFlag = "diabete"
	AntecedentCardiopathie  AntecedentFlag = "cardiopathie"
	AntecedentAVC           AntecedentFlag = "avc"
	AntecedentDepression    AntecedentFlag = "depression"
	AntecedentHypothyroidie AntecedentFlag = "hypothyroidie"
)

// AntecedentUpdate toggles one antecedent.
type AntecedentUpdate struct {
	Flag  AntecedentFlag
	Value bool
}

func (u AntecedentUpdate) Category() UpdateCategory { return CategoryAntecedent }

func (u AntecedentUpdate) Apply(s *Session) error {
	a := &s.ConsultationData.Antecedents
	switch u.Flag {
	case AntecedentHTA:
		a.HTA = u.Value
	case AntecedentDiabete:
		a.Diabete = u.Value
	case AntecedentCardiopathie:
		a.Cardiopathie = u.Value
	case AntecedentAVC:
		a.AVC = u.Value
	case AntecedentDepression:
		a.Depression = u.Value
	case AntecedentHypothyroidie:
		a.Hypothyroidie = u.Value
	default:
		return NewValidationError(string(u.Flag), "unknown antecedent", u.Value)
	}
	return nil
}

// SymptomFlag enumerates the main symptoms.
type SymptomFlag string

const (
	SymptomRonflements           SymptomFlag = "ronflements"
	SymptomApnees                SymptomFlag = "apnees"
	SymptomSomnolence            SymptomFlag = "somnolence"
	SymptomFatigue               SymptomFlag = "fatigue"
	SymptomCephalees             SymptomFlag = "cephalees"
	SymptomNycturie              SymptomFlag = "nycturie"
	SymptomTroublesConcentration SymptomFlag = "troublesConcentration"
)

// SymptomUpdate toggles one main symptom.
type SymptomUpdate struct {
	Flag  SymptomFlag
	Value bool
}

func (u SymptomUpdate) Category() UpdateCategory { return CategorySymptom }

func (u SymptomUpdate) Apply(s *Session) error {
	sy := &s.ConsultationData.Symptoms
	switch u.Flag {
	case SymptomRonflements:
		sy.Ronflements = u.Value
	case SymptomApnees:
		sy.Apnees = u.Value
	case SymptomSomnolence:
		sy.Somnolence = u.Value
	case SymptomFatigue:
		sy.Fatigue = u.Value
	case SymptomCephalees:
		sy.Cephalees = u.Value
	case SymptomNycturie:
		sy.Nycturie = u.Value
	case SymptomTroublesConcentration:
		sy.TroublesConcentration = u.Value
	default:
		return NewValidationError(string(u.Flag), "unknown symptom", u.Value)
	}
	return nil
}

// HistoryFlag enumerates the boolean fields at the root of the consultation data:
// other history, additional symptoms and referral motivations.
type HistoryFlag string

const (
	FlagFamilyHistorySahos         HistoryFlag = "familyHistorySahos"
	FlagNasalObstruction           HistoryFlag = "nasalObstruction"
	FlagGERD                       HistoryFlag = "gerd"
	FlagMorningDryMouth            HistoryFlag = "morningDryMouth"
	FlagNocturnalChokingGasping    HistoryFlag = "nocturnalChokingGasping"
	FlagMotivationSomnolence       HistoryFlag = "motivationSomnolence"
	FlagMotivationRonflements      HistoryFlag = "motivationRonflements"
	FlagMotivationApneesEntourage  HistoryFlag = "motivationApneesEntourage"
	FlagMotivationBilanPreOp       HistoryFlag = "motivationBilanPreOp"
	FlagMotivationFatigueChronique HistoryFlag = "motivationFatigueChronique"
	FlagMotivationHTAResistante    HistoryFlag = "motivationHTAResistante"
)

// HistoryFlagUpdate toggles one root boolean.
type HistoryFlagUpdate struct {
	Flag  HistoryFlag
	Value bool
}

func (u HistoryFlagUpdate) Category() UpdateCategory { return CategoryHistoryFlag }

func (u HistoryFlagUpdate) Apply(s *Session) error {
	target := u.target(&s.ConsultationData)
	if target == nil {
		return NewValidationError(string(u.Flag), "unknown flag", u.Value)
	}
	*target = u.Value
	return nil
}

func (u HistoryFlagUpdate) target(c *ConsultationData) *bool {
	switch u.Flag {
	case FlagFamilyHistorySahos:
		return &c.FamilyHistorySahos
	case FlagNasalObstruction:
		return &c.NasalObstruction
	case FlagGERD:
		return &c.GERD
	case FlagMorningDryMouth:
		return &c.MorningDryMouth
	case FlagNocturnalChokingGasping:
		return &c.NocturnalChokingGasping
	case FlagMotivationSomnolence:
		return &c.MotivationSomnolence
	case FlagMotivationRonflements:
		return &c.MotivationRonflements
	case FlagMotivationApneesEntourage:
		return &c.MotivationApneesEntourage
	case FlagMotivationBilanPreOp:
		return &c.MotivationBilanPreOp
	case FlagMotivationFatigueChronique:
		return &c.MotivationFatigueChronique
	case FlagMotivationHTAResistante:
		return &c.MotivationHTAResistante
	default:
		return nil
	}
}

// SleepinessUpdate moves the subjective sleepiness slider.
type SleepinessUpdate struct {
	Value int
}

func (u SleepinessUpdate) Category() UpdateCategory { return CategorySleepiness }

func (u SleepinessUpdate) Apply(s *Session) error {
	if u.Value < 1 || u.Value > 10 {
		return NewValidationError("sleepinessScale", ErrInvalidSleepinessScale.Error(), u.Value)
	}
	s.ConsultationData.SleepinessScale = u.Value
	return nil
}

// validateDate accepts an empty value (field cleared) or an ISO calendar date.
func validateDate(field, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if _, err := parseDate(v); err != nil {
		return NewValidationError(field, fmt.Sprintf("expected a date formatted %s", DateLayout), value)
	}
	return nil
}
