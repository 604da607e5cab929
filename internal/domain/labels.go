package domain

import "strings"

// Label pairs a stored value with its French display text.
type Label struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Step describes one intake step for navigation bars.
type Step struct {
	ID          StepID `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Steps is the ordered step catalog.
var Steps = []Step{
	{ID: StepIdentity, Name: "Identité & Mesures", Icon: "👤", Title: "Identité et Mesures Initiales", Description: "Informations patient, mesures anthropométriques et date du rapport"},
	{ID: StepHistory, Name: "Antécédents", Icon: "📋", Title: "Antécédents et Habitudes", Description: "Historique médical, traitements et habitudes de vie"},
	{ID: StepClinical, Name: "Clinique", Icon: "🩺", Title: "Données Cliniques", Description: "Symptômes et examen clinique général"},
	{ID: StepQuestionnaires, Name: "Questionnaires", Icon: "📝", Title: "Questionnaires d'Évaluation", Description: "Scores standardisés pour l'évaluation du SAHOS"},
	{ID: StepConclusion, Name: "Conclusion", Icon: "💡", Title: "Conclusion et Propositions", Description: "Synthèse du rapport, suspicion diagnostique et propositions"},
}

var (
	AntecedentLabels = []Label{
		{string(AntecedentHTA), "Hypertension artérielle"},
		{string(AntecedentDiabete), "Diabète"},
		{string(AntecedentCardiopathie), "Cardiopathie"},
		{string(AntecedentAVC), "Accident vasculaire cérébral"},
		{string(AntecedentDepression), "Dépression"},
		{string(AntecedentHypothyroidie), "Hypothyroïdie"},
	}

	OtherHistoryLabels = []Label{
		{string(FlagFamilyHistorySahos), "Antécédents familiaux de SAHOS connu"},
		{string(FlagNasalObstruction), "Obstruction nasale chronique / Allergies sévères"},
		{string(FlagGERD), "Reflux Gastro-Œsophagien (RGO)"},
	}

	SymptomLabels = []Label{
		{string(SymptomRonflements), "Ronflements"},
		{string(SymptomApnees), "Apnées observées par l'entourage"},
		{string(SymptomSomnolence), "Somnolence diurne excessive"},
		{string(SymptomFatigue), "Fatigue matinale / Non réparatrice"},
		{string(SymptomCephalees), "Céphalées matinales"},
		{string(SymptomNycturie), "Nycturie (plusieurs levers nocturnes)"},
		{string(SymptomTroublesConcentration), "Troubles de concentration / mémoire"},
	}

	AdditionalSymptomLabels = []Label{
		{string(FlagMorningDryMouth), "Bouche sèche ou pâteuse au réveil"},
		{string(FlagNocturnalChokingGasping), "Réveils nocturnes avec sensation d'étouffement ou suffocation"},
	}

	MotivationLabels = []Label{
		{string(FlagMotivationSomnolence), "Somnolence diurne"},
		{string(FlagMotivationRonflements), "Ronflements importants"},
		{string(FlagMotivationApneesEntourage), "Apnées rapportées par l'entourage"},
		{string(FlagMotivationBilanPreOp), "Bilan pré-opératoire"},
		{string(FlagMotivationFatigueChronique), "Fatigue chronique"},
		{string(FlagMotivationHTAResistante), "HTA résistante"},
	}

	SmokingLabels = []Label{
		{string(SmokingNone), "Non fumeur"},
		{string(SmokingCurrent), "Fumeur actuel"},
		{string(SmokingFormer), "Ancien fumeur"},
	}

	GenderLabels = []Label{
		{string(GenderMale), GenderMale.Label()},
		{string(GenderFemale), GenderFemale.Label()},
	}
)

// ReportedSymptoms returns the labels of the main symptoms that are set, in catalog order.
func (s Symptoms) ReportedSymptoms() []string {
	set := map[SymptomFlag]bool{
		SymptomRonflements:           s.Ronflements,
		SymptomApnees:                s.Apnees,
		SymptomSomnolence:            s.Somnolence,
		SymptomFatigue:               s.Fatigue,
		SymptomCephalees:             s.Cephalees,
		SymptomNycturie:              s.Nycturie,
		SymptomTroublesConcentration: s.TroublesConcentration,
	}
	var out []string
	for _, l := range SymptomLabels {
		if set[SymptomFlag(l.Value)] {
			out = append(out, l.Label)
		}
	}
	return out
}

// Motivations returns the labels of the referral reasons that are set, the free
// text last as "Autre: ...".
func (c *ConsultationData) Motivations() []string {
	var out []string
	for _, l := range MotivationLabels {
		if target := (HistoryFlagUpdate{Flag: HistoryFlag(l.Value)}).target(c); target != nil && *target {
			out = append(out, l.Label)
		}
	}
	if other := strings.TrimSpace(c.ExplorationReasonOther); other != "" {
		out = append(out, "Autre: "+other)
	}
	return out
}
