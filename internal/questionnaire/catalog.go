package questionnaire

import (
	"fmt"

	"github.com/sahos-screening-server/internal/domain"
)

var (
	epworthOptions = []Option{
		{Value: 0, Label: "Aucune chance"},
		{Value: 1, Label: "Faible chance"},
		{Value: 2, Label: "Chance moyenne"},
		{Value: 3, Label: "Forte chance"},
	}

	yesNoOptions = []Option{
		{Value: 0, Label: "Non"},
		{Value: 1, Label: "Oui"},
	}

	fosqOptions = []Option{
		{Value: 4, Label: "Non, aucune difficulté"},
		{Value: 3, Label: "Oui, un peu de difficulté"},
		{Value: 2, Label: "Oui, modérément de difficulté"},
		{Value: 1, Label: "Oui, extrêmement de difficulté"},
	}
)

var epworth = Definition{
	Type:        domain.Epworth,
	Title:       "Échelle de Somnolence d'Epworth",
	Description: "Évaluez votre risque de vous assoupir dans différentes situations.",
	Icon:        "😴",
	Questions: []Question{
		{ID: "ep_q1", Prompt: "Assis en train de lire", Options: epworthOptions},
		{ID: "ep_q2", Prompt: "En train de regarder la télévision", Options: epworthOptions},
		{ID: "ep_q3", Prompt: "Assis, inactif dans un lieu public (cinéma, théâtre, réunion)", Options: epworthOptions},
		{ID: "ep_q4", Prompt: "Comme passager d’une voiture (ou transport en commun) roulant sans arrêt pendant une heure", Options: epworthOptions},
		{ID: "ep_q5", Prompt: "Allongé l’après-midi lorsque les circonstances le permettent", Options: epworthOptions},
		{ID: "ep_q6", Prompt: "Étant assis en parlant avec quelqu’un", Options: epworthOptions},
		{ID: "ep_q7", Prompt: "Assis au calme après un déjeuner sans alcool", Options: epworthOptions},
		{ID: "ep_q8", Prompt: "Dans une voiture immobilisée depuis quelques minutes (embouteillage, feu rouge…)", Options: epworthOptions},
	},
	ScoreLabel: "Score d'Epworth",
	Tiers: []Tier{
		{Max: 8, Label: "Normale", Details: []string{"Somnolence diurne normale ou peu probable."}},
		{Max: 10, Label: "Légère", Details: []string{"Somnolence diurne légère. Peut être normale pour certains individus."}},
		{Max: 15, Label: "Modérée", Details: []string{"Somnolence diurne modérée. Un avis médical peut être utile."}},
		{Max: 24, Label: "Sévère", Details: []string{"Somnolence diurne sévère. Consultation médicale recommandée."}},
	},
	Weight: []WeightStep{{Min: 11, Points: 2}, {Min: 9, Points: 1}},
}

var berlin = Definition{
	Type:        domain.Berlin,
	Title:       "Questionnaire de Berlin (Simplifié)",
	Description: "Dépistage du risque d'apnée du sommeil (version simplifiée).",
	Icon:        "🏥",
	Questions: []Question{
		{ID: "b_q1", Prompt: "Ronflez-vous ?", Options: yesNoOptions},
		{ID: "b_q2", Prompt: "Votre ronflement est-il fort (plus fort que la parole ou audible à travers une porte) ?", Options: yesNoOptions},
		{ID: "b_q3", Prompt: "A-t-on déjà remarqué que vous arrêtiez de respirer pendant votre sommeil ?", Options: yesNoOptions},
		{ID: "b_q4", Prompt: "Vous sentez-vous fatigué ou las après votre sommeil, ou durant la journée ?", Options: yesNoOptions},
		{ID: "b_q5", Prompt: "Avez-vous une hypertension artérielle ou êtes-vous traité pour cela ?", Options: yesNoOptions},
	},
	ScoreLabel: "Score de Berlin (simplifié)",
	Tiers: []Tier{
		{Max: 1, Label: "Risque faible", Details: []string{"Risque faible d'apnée du sommeil selon ce questionnaire simplifié."}},
		{Max: 3, Label: "Risque modéré", Details: []string{"Risque modéré d'apnée du sommeil."}},
		{Max: 5, Label: "Risque élevé", Details: []string{"Risque élevé d'apnée du sommeil. Consultation recommandée."}},
	},
}

var stopBang = Definition{
	Type:        domain.StopBang,
	Title:       "Questionnaire STOP-BANG",
	Description: "Outil de dépistage pour identifier les patients à risque de SAHOS.",
	Icon:        "⚠️",
	Questions: []Question{
		{ID: "s", Prompt: "S (Snoring) - Ronflez-vous bruyamment (plus fort que la parole, ou entendu à travers une cloison) ou de manière gênante ?", Options: yesNoOptions},
		{ID: "t", Prompt: "T (Tiredness) - Vous sentez-vous souvent fatigué, las ou somnolent durant la journée ?", Options: yesNoOptions},
		{ID: "o", Prompt: "O (Observed apnea) - Vous a-t-on fait remarquer que vous arrêtiez de respirer pendant votre sommeil ?", Options: yesNoOptions},
		{ID: "p", Prompt: "P (Blood Pressure) - Êtes-vous hypertendu ou prenez-vous un traitement pour la tension ?", Options: yesNoOptions},
		{ID: "b", Prompt: "B (BMI) - Votre Indice de Masse Corporelle (IMC) est-il supérieur à 35 kg/m² ?", Options: yesNoOptions, Condition: ConditionShowBMI},
		{ID: "a", Prompt: "A (Age) - Avez-vous plus de 50 ans ?", Options: yesNoOptions, Condition: ConditionShowAge},
		{ID: "n", Prompt: "N (Neck Circumference) - Votre tour de cou est-il supérieur à 43 cm (homme) ou 41 cm (femme) ?", Options: yesNoOptions, Condition: ConditionShowNeckAndGender},
		{ID: "g", Prompt: "G (Gender) - Êtes-vous de sexe masculin ?", Options: yesNoOptions, Condition: ConditionShowGender},
	},
	ScoreLabel: "Score STOP-BANG",
	Tiers: []Tier{
		{Max: 2, Label: "Faible", Details: []string{"Probabilité de SAOS faible."}},
		{Max: 4, Label: "Modérée", Details: []string{"Probabilité de SAOS modérée."}},
		{Max: 8, Label: "Élevée", Details: []string{"Probabilité de SAOS élevée. Consultation spécialisée fortement recommandée."}},
	},
	Weight: []WeightStep{{Min: 5, Points: 3}, {Min: 3, Points: 2}},
}

var fosq10 = Definition{
	Type:        domain.FOSQ10,
	Title:       "FOSQ-10",
	Description: "Questionnaire sur les conséquences fonctionnelles du sommeil (version réduite).",
	Icon:        "🏃",
	Questions: []Question{
		{ID: "fosq_q1", Prompt: "Avez-vous des difficultés à vous concentrer sur ce que vous faites parce que vous êtes somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q2", Prompt: "Avez-vous généralement des difficultés à vous souvenir des choses parce que vous êtes somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q3", Prompt: "Avez-vous des difficultés à finir un repas parce que vous devenez somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q4", Prompt: "Avez-vous des difficultés à travailler sur un hobby (par exemple, couture, collection, jardinage) parce que vous êtes somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q5", Prompt: "Avez-vous des difficultés à faire des travaux ménagers (par exemple, nettoyer la maison, faire la lessive, sortir les poubelles, faire des réparations) parce que vous êtes somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q6", Prompt: "Avez-vous des difficultés à conduire un véhicule motorisé sur de courtes distances (moins de 160 km) parce que vous devenez somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q7", Prompt: "Avez-vous des difficultés à conduire un véhicule motorisé sur de longues distances (plus de 160 km) parce que vous devenez somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q8", Prompt: "Avez-vous des difficultés à faire avancer les choses parce que vous êtes trop somnolent ou fatigué pour conduire ou prendre les transports en commun ?", Options: fosqOptions},
		{ID: "fosq_q9", Prompt: "Avez-vous des difficultés à gérer vos affaires financières et à faire de la paperasserie (par exemple, faire des chèques, payer des factures, tenir des registres financiers, remplir des formulaires fiscaux, etc.) parce que vous êtes somnolent ou fatigué ?", Options: fosqOptions},
		{ID: "fosq_q10", Prompt: "Avez-vous des difficultés à effectuer un travail rémunéré ou bénévole parce que vous êtes somnolent ou fatigué ?", Options: fosqOptions},
	},
	ScoreLabel:  "Score FOSQ-10",
	ScoreSuffix: " / 40",
	Tiers: []Tier{
		{Max: 19, Label: "Impact significatif", Details: []string{"Impact significatif de la somnolence/fatigue sur le fonctionnement quotidien."}},
		{Max: 29, Label: "Impact modéré", Details: []string{"Impact modéré de la somnolence/fatigue sur le fonctionnement quotidien."}},
		{Max: 40, Label: "Peu ou pas d'impact", Details: []string{"Peu ou pas d'impact de la somnolence/fatigue sur le fonctionnement quotidien."}},
	},
}

var catalog = []*Definition{&epworth, &berlin, &stopBang, &fosq10}

// Catalog returns every questionnaire in display order: Epworth, Berlin,
// STOP-BANG, FOSQ-10. Callers must not modify the returned definitions.
func Catalog() []*Definition {
	return append([]*Definition(nil), catalog...)
}

// Lookup returns the definition of a questionnaire.
func Lookup(t domain.QuestionnaireType) (*Definition, error) {
	for _, d := range catalog {
		if d.Type == t {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQuestionnaire, t)
}

// ReportOrder is the order questionnaire lines appear in the conclusion summary.
var ReportOrder = []domain.QuestionnaireType{domain.Epworth, domain.StopBang, domain.Berlin, domain.FOSQ10}
