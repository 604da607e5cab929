package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/questionnaire"
)

// Recommendation sentences of the conclusion.
const (
	RecommendationHigh     = "Suspicion élevée de SAHOS. Consultation spécialisée et exploration du sommeil (polygraphie/polysomnographie) fortement recommandées."
	RecommendationModerate = "Suspicion modérée de SAHOS. Évaluation médicale approfondie et exploration du sommeil suggérées."
	RecommendationLow      = "Suspicion plus faible de SAHOS. Maintenir bonne hygiène de sommeil. Réévaluer si symptômes s'aggravent ou persistent."
	RecommendationSmoking  = "L'arrêt du tabac est fortement recommandé."
	RecommendationAlcohol  = "La modération de la consommation d'alcool est conseillée."
	RecommendationFollowUp = "Planifier un suivi si nécessaire, en fonction des symptômes et du niveau de suspicion."

	NoSymptomsSentence   = "Aucun symptôme principal rapporté."
	NoMotivationSentence = "Aucune motivation spécifique d'exploration rapportée."
)

// Thresholds of the risk classification and lifestyle advice.
const (
	HighRiskScore      = 5
	ModerateRiskScore  = 3
	OverweightBMI      = 25.0
	AlcoholLimitFemale = 7.0
	AlcoholLimitMale   = 14.0
)

// RiskAggregator combines the form data and questionnaire scores into the
// conclusion of the intake.
type RiskAggregator struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewRiskAggregator creates a new risk aggregator. now defaults to time.Now.
func NewRiskAggregator(logger *logrus.Logger, now func() time.Time) *RiskAggregator {
	if now == nil {
		now = time.Now
	}
	return &RiskAggregator{logger: logger, now: now}
}

// Aggregate builds the conclusion. It never fails: missing scores are skipped and
// malformed measures degrade to N/A or to an unmet threshold.
func (a *RiskAggregator) Aggregate(demographics domain.PatientDemographics, consultation domain.ConsultationData, scores domain.QuestionnaireScores) *domain.AppConclusion {
	bmi, hasBMI := domain.BMI(consultation.Height, consultation.Weight)
	bmiText := domain.FormatBMI(consultation.Height, consultation.Weight)

	summary := a.demographicSummary(demographics, consultation, bmiText)

	riskScore := 0
	reported := 0
	for _, t := range questionnaire.ReportOrder {
		score, ok := scores.Get(t)
		if !ok {
			continue
		}
		def, err := questionnaire.Lookup(t)
		if err != nil {
			continue
		}
		interp := def.Interpret(score)
		summary = append(summary, fmt.Sprintf("%s : %d (%s).", def.ScoreLabel, score, strings.Join(interp.Details, " ")))
		riskScore += def.RiskPoints(score)
		reported++
	}

	level := ClassifyRisk(riskScore)
	recommendations := []string{tierRecommendation(level)}

	if hasBMI && bmi >= OverweightBMI {
		recommendations = append(recommendations, fmt.Sprintf("La gestion du poids est conseillée (IMC actuel: %s kg/m²).", bmiText))
	}
	if consultation.Smoking == domain.SmokingCurrent {
		recommendations = append(recommendations, RecommendationSmoking)
	}
	if exceedsAlcoholLimit(consultation.Alcohol, demographics.Gender) {
		recommendations = append(recommendations, RecommendationAlcohol)
	}
	recommendations = append(recommendations, RecommendationFollowUp)

	a.logger.WithFields(logrus.Fields(level.LogFields())).WithFields(logrus.Fields{
		"risk_score":      riskScore,
		"questionnaires":  reported,
		"summary_lines":   len(summary),
		"recommendations": len(recommendations),
	}).Info("Risk aggregation completed")

	return &domain.AppConclusion{
		Summary:         summary,
		Recommendations: recommendations,
		RiskLevel:       level,
	}
}

func (a *RiskAggregator) demographicSummary(demographics domain.PatientDemographics, consultation domain.ConsultationData, bmiText string) []string {
	age := domain.Age(demographics.Birthdate, a.now())

	summary := []string{
		fmt.Sprintf("Rapport pour %s %s, âgé(e) de %d ans, sexe %s.",
			demographics.FirstName, demographics.LastName, age, demographics.Gender.Adjective()),
		fmt.Sprintf("Date du rapport: %s.", domain.FormatReportDate(consultation.ConsultationDate)),
		fmt.Sprintf("Taille: %s cm, Poids: %s kg, IMC: %s kg/m². Tour de cou: %s cm.",
			orNotAvailable(consultation.Height), orNotAvailable(consultation.Weight), bmiText, orNotAvailable(consultation.NeckCircumference)),
	}

	if symptoms := consultation.Symptoms.ReportedSymptoms(); len(symptoms) > 0 {
		summary = append(summary, fmt.Sprintf("Symptômes rapportés : %s.", strings.Join(symptoms, ", ")))
	} else {
		summary = append(summary, NoSymptomsSentence)
	}

	if motivations := consultation.Motivations(); len(motivations) > 0 {
		summary = append(summary, fmt.Sprintf("Motivation(s) de l'exploration : %s.", strings.Join(motivations, ", ")))
	} else {
		summary = append(summary, NoMotivationSentence)
	}

	return append(summary, fmt.Sprintf("Échelle de somnolence subjective : %d/10.", consultation.SleepinessScale))
}

// ClassifyRisk maps the weighted questionnaire score to a risk tier.
func ClassifyRisk(riskScore int) domain.RiskLevel {
	switch {
	case riskScore >= HighRiskScore:
		return domain.RiskHigh
	case riskScore >= ModerateRiskScore:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}

func tierRecommendation(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return RecommendationHigh
	case domain.RiskModerate:
		return RecommendationModerate
	default:
		return RecommendationLow
	}
}

func exceedsAlcoholLimit(raw string, gender domain.Gender) bool {
	drinks, ok := domain.ParseMeasure(raw)
	if !ok {
		return false
	}
	switch gender {
	case domain.GenderFemale:
		return drinks > AlcoholLimitFemale
	case domain.GenderMale:
		return drinks > AlcoholLimitMale
	default:
		return false
	}
}

func orNotAvailable(s string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return domain.NotAvailable
}
