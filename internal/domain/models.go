package domain

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used by every date field of the intake.
const DateLayout = "2006-01-02"

// DefaultSleepinessScale is the slider position of a fresh session.
const DefaultSleepinessScale = 5

// PatientDemographics is the identity captured on step 1.
type PatientDemographics struct {
	LastName   string `json:"lastname"`
	FirstName  string `json:"firstname"`
	Birthdate  string `json:"birthdate"`
	Gender     Gender `json:"gender"`
	Profession string `json:"profession"`
}

// Antecedents are the structured medical history flags.
type Antecedents struct {
	HTA           bool `json:"hta"`
	Diabete       bool `json:"diabete"`
	Cardiopathie  bool `json:"cardiopathie"`
	AVC           bool `json:"avc"`
	Depression    bool `json:"depression"`
	Hypothyroidie bool `json:"hypothyroidie"`
}

// Symptoms are the main sleep-related complaints.
type Symptoms struct {
	Ronflements           bool `json:"ronflements"`
	Apnees                bool `json:"apnees"`
	Somnolence            bool `json:"somnolence"`
	Fatigue               bool `json:"fatigue"`
	Cephalees             bool `json:"cephalees"`
	Nycturie              bool `json:"nycturie"`
	TroublesConcentration bool `json:"troublesConcentration"`
}

// ConsultationData holds everything captured on steps 1 to 3 besides identity.
// Numeric measures stay strings, exactly as typed, and are parsed on use.
type ConsultationData struct {
	Height            string `json:"height"`
	Weight            string `json:"weight"`
	NeckCircumference string `json:"neckCircumference"`

	Antecedents        Antecedents `json:"antecedents"`
	FamilyHistorySahos bool        `json:"familyHistorySahos"`
	NasalObstruction   bool        `json:"nasalObstruction"`
	GERD               bool        `json:"gerd"`

	CurrentTreatments string        `json:"currentTreatments"`
	Smoking           SmokingStatus `json:"smoking"`
	Alcohol           string        `json:"alcohol"`

	Symptoms                Symptoms `json:"symptoms"`
	MorningDryMouth         bool     `json:"morningDryMouth"`
	NocturnalChokingGasping bool     `json:"nocturnalChokingGasping"`
	MallampatiScore         string   `json:"mallampatiScore"`
	TonsilSize              string   `json:"tonsilSize"`

	MotivationSomnolence       bool   `json:"motivationSomnolence"`
	MotivationRonflements      bool   `json:"motivationRonflements"`
	MotivationApneesEntourage  bool   `json:"motivationApneesEntourage"`
	MotivationBilanPreOp       bool   `json:"motivationBilanPreOp"`
	MotivationFatigueChronique bool   `json:"motivationFatigueChronique"`
	MotivationHTAResistante    bool   `json:"motivationHTAResistante"`
	ExplorationReasonOther     string `json:"explorationReasonOther"`

	SleepinessScale int `json:"sleepinessScale"`

	ConsultationDate string `json:"consultationDate"`
}

// HasMotivation reports whether any referral reason was given, either a flag or free text.
func (c *ConsultationData) HasMotivation() bool {
	return c.MotivationSomnolence ||
		c.MotivationRonflements ||
		c.MotivationApneesEntourage ||
		c.MotivationBilanPreOp ||
		c.MotivationFatigueChronique ||
		c.MotivationHTAResistante ||
		strings.TrimSpace(c.ExplorationReasonOther) != ""
}

// QuestionnaireScores maps a questionnaire to its total. A missing key means not completed.
type QuestionnaireScores map[QuestionnaireType]int

// Get returns the score of a questionnaire and whether it was completed.
func (s QuestionnaireScores) Get(t QuestionnaireType) (int, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s[t]
	return v, ok
}

// Clone returns an independent copy.
func (s QuestionnaireScores) Clone() QuestionnaireScores {
	out := make(QuestionnaireScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// AppConclusion is the synthesized result of the risk aggregation.
type AppConclusion struct {
	Summary         []string  `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	RiskLevel       RiskLevel `json:"riskLevel"`
}

// Session is the single persisted unit of the intake.
type Session struct {
	Demographics        PatientDemographics `json:"demographics"`
	ConsultationData    ConsultationData    `json:"consultationData"`
	QuestionnaireScores QuestionnaireScores `json:"questionnaireScores"`
	AppConclusion       *AppConclusion      `json:"appConclusion"`
	CurrentStep         StepID              `json:"currentStep"`
	CompletedSteps      []StepID            `json:"completedSteps"`
}

// NewSession returns the defaulted session of a first load.
func NewSession(now time.Time) *Session {
	return &Session{
		ConsultationData: ConsultationData{
			SleepinessScale:  DefaultSleepinessScale,
			ConsultationDate: now.Format(DateLayout),
		},
		QuestionnaireScores: QuestionnaireScores{},
		CurrentStep:         StepIdentity,
		CompletedSteps:      []StepID{},
	}
}

// MarkCompleted records a step as completed, keeping the list sorted and unique.
func (s *Session) MarkCompleted(step StepID) {
	if s.IsCompleted(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
	sort.Slice(s.CompletedSteps, func(i, j int) bool { return s.CompletedSteps[i] < s.CompletedSteps[j] })
}

// IsCompleted reports whether the step has already passed its gate.
func (s *Session) IsCompleted(step StepID) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// SetScore records a questionnaire total, overwriting any earlier submission.
func (s *Session) SetScore(t QuestionnaireType, score int) {
	if s.QuestionnaireScores == nil {
		s.QuestionnaireScores = QuestionnaireScores{}
	}
	s.QuestionnaireScores[t] = score
}

// Normalize repairs a session read from storage: nil maps, out-of-range step,
// an unsorted or duplicated completed list, and enum or scale values outside
// their accepted sets, which fall back to unset (the scale to its default).
func (s *Session) Normalize() {
	if s.QuestionnaireScores == nil {
		s.QuestionnaireScores = QuestionnaireScores{}
	}
	for t := range s.QuestionnaireScores {
		if !t.IsValid() {
			delete(s.QuestionnaireScores, t)
		}
	}

	if !s.Demographics.Gender.IsValid() {
		s.Demographics.Gender = GenderUnset
	}
	c := &s.ConsultationData
	if !c.Smoking.IsValid() {
		c.Smoking = SmokingUnset
	}
	if !containsString(MallampatiClasses, c.MallampatiScore) {
		c.MallampatiScore = ""
	}
	if !containsString(TonsilGrades, c.TonsilSize) {
		c.TonsilSize = ""
	}
	if c.SleepinessScale < 1 || c.SleepinessScale > 10 {
		c.SleepinessScale = DefaultSleepinessScale
	}

	if !s.CurrentStep.IsValid() {
		s.CurrentStep = StepIdentity
	}
	steps := s.CompletedSteps
	s.CompletedSteps = []StepID{}
	for _, step := range steps {
		if step.IsValid() {
			s.MarkCompleted(step)
		}
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.QuestionnaireScores = s.QuestionnaireScores.Clone()
	out.CompletedSteps = append([]StepID{}, s.CompletedSteps...)
	if s.AppConclusion != nil {
		c := *s.AppConclusion
		c.Summary = append([]string{}, s.AppConclusion.Summary...)
		c.Recommendations = append([]string{}, s.AppConclusion.Recommendations...)
		out.AppConclusion = &c
	}
	return &out
}
