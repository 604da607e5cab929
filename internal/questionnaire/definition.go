// Package questionnaire holds the screening questionnaire catalog and scores
// submitted answers against it.
package questionnaire

import (
	"fmt"
	"time"

	"github.com/sahos-screening-server/internal/domain"
)

// Option is one selectable answer of a question.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Question is a single item of a questionnaire.
type Question struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Options   []Option  `json:"options"`
	Condition Condition `json:"condition,omitempty"`
}

// HasOption reports whether value is one of the question's option values.
func (q Question) HasOption(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Tier is one row of an interpretation table. A score belongs to the first tier
// whose Max is greater than or equal to it; the last tier has no bound.
type Tier struct {
	Max     int      `json:"max"`
	Label   string   `json:"label"`
	Details []string `json:"details"`
}

// Definition is one immutable catalog entry.
type Definition struct {
	Type        domain.QuestionnaireType `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Icon        string                   `json:"icon"`
	Questions   []Question               `json:"questions"`

	// ScoreLabel prefixes the score in headlines and report lines.
	ScoreLabel string `json:"scoreLabel"`
	// ScoreSuffix is appended to the modal headline only, e.g. " / 40".
	ScoreSuffix string `json:"scoreSuffix,omitempty"`
	Tiers       []Tier `json:"tiers"`
	// Weight maps a score to its contribution to the overall risk score.
	Weight []WeightStep `json:"weight,omitempty"`
}

// WeightStep awards Points when a score is at least Min. Steps are ordered by
// decreasing Min and only the first match counts.
type WeightStep struct {
	Min    int `json:"min"`
	Points int `json:"points"`
}

// RiskPoints returns the contribution of score to the overall risk score. A
// questionnaire without weight steps contributes nothing.
func (d *Definition) RiskPoints(score int) int {
	for _, w := range d.Weight {
		if score >= w.Min {
			return w.Points
		}
	}
	return 0
}

// Interpretation is the classification of a total score.
type Interpretation struct {
	Type    domain.QuestionnaireType `json:"type"`
	Score   int                      `json:"score"`
	Label   string                   `json:"label"`
	Text    string                   `json:"text"`
	Details []string                 `json:"details"`
}

// Interpret maps a total score to its tier. It is pure and never fails.
func (d *Definition) Interpret(score int) Interpretation {
	tier := d.Tiers[len(d.Tiers)-1]
	for _, t := range d.Tiers[:len(d.Tiers)-1] {
		if score <= t.Max {
			tier = t
			break
		}
	}
	return Interpretation{
		Type:    d.Type,
		Score:   score,
		Label:   tier.Label,
		Text:    fmt.Sprintf("%s : %d%s", d.ScoreLabel, score, d.ScoreSuffix),
		Details: append([]string(nil), tier.Details...),
	}
}

// QuestionView is a question as displayed for a given patient.
type QuestionView struct {
	Question
	Visible bool   `json:"visible"`
	Context string `json:"context,omitempty"`
}

// Render evaluates every question condition against the current form data.
func (d *Definition) Render(demographics domain.PatientDemographics, consultation domain.ConsultationData, now time.Time) []QuestionView {
	views := make([]QuestionView, 0, len(d.Questions))
	for _, q := range d.Questions {
		r := Evaluate(q.Condition, demographics, consultation, now)
		views = append(views, QuestionView{Question: q, Visible: r.Visible, Context: r.Context})
	}
	return views
}
