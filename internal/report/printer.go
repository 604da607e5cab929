// Package report renders the printable conclusion of an intake session.
package report

import (
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"

	"github.com/sahos-screening-server/internal/domain"
)

// Format selects the rendering of a printed report.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat accepts "text", "html" or an empty string (text).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", domain.NewValidationError("format", fmt.Sprintf("unsupported report format %q", s), s)
	}
}

// Document is the read-only content of a printed report.
type Document struct {
	ID              string           `json:"id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Patient         string           `json:"patient"`
	ReportDate      string           `json:"report_date"`
	RiskLevel       domain.RiskLevel `json:"risk_level"`
	Summary         []string         `json:"summary"`
	Recommendations []string         `json:"recommendations"`
}

// Printer builds and renders report documents.
type Printer struct {
	now   func() time.Time
	newID func() string
}

// NewPrinter creates a printer stamping documents with the current time.
func NewPrinter() *Printer {
	return &Printer{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Build assembles the document of a session. It returns domain.ErrNoConclusion
// until a conclusion has been generated.
func (p *Printer) Build(session *domain.Session) (*Document, error) {
	if session == nil || session.AppConclusion == nil {
		return nil, domain.ErrNoConclusion
	}

	step := domain.Steps[len(domain.Steps)-1]
	conclusion := session.AppConclusion
	return &Document{
		ID:              p.newID(),
		GeneratedAt:     p.now(),
		Title:           step.Title,
		Description:     step.Description,
		Patient:         patientName(session.Demographics),
		ReportDate:      domain.FormatReportDate(session.ConsultationData.ConsultationDate),
		RiskLevel:       conclusion.RiskLevel,
		Summary:         append([]string(nil), conclusion.Summary...),
		Recommendations: append([]string(nil), conclusion.Recommendations...),
	}, nil
}

// Write builds the session report and renders it in the given format.
func (p *Printer) Write(w io.Writer, session *domain.Session, format Format) (*Document, error) {
	doc, err := p.Build(session)
	if err != nil {
		return nil, err
	}
	if err := Render(w, doc, format); err != nil {
		return nil, err
	}
	return doc, nil
}

// Render writes an already built document.
func Render(w io.Writer, doc *Document, format Format) error {
	var err error
	switch format {
	case FormatHTML:
		err = htmlReport.Execute(w, doc)
	default:
		err = textReport.Execute(w, doc)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func patientName(d domain.PatientDemographics) string {
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if name == "" {
		return domain.NotAvailable
	}
	return name
}

var textReport = texttemplate.Must(texttemplate.New("text").Parse(`{{.Title}}
{{.Description}}
Patient : {{.Patient}}
Date du rapport : {{.ReportDate}}

Synthèse Générale (Niveau de Suspicion : {{.RiskLevel}})
{{range .Summary}}  - {{.}}
{{end}}
Propositions et Conseils
{{range .Recommendations}}  - {{.}}
{{end}}
Rapport {{.ID}} imprimé le {{.GeneratedAt.Format "02/01/2006 15:04"}}
`))

var htmlReport = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.Patient}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #1f2937; }
h1 { font-size: 1.4em; border-bottom: 2px solid #e5e7eb; padding-bottom: .3em; }
.risk { display: inline-block; padding: .2em .8em; border: 1px solid #9ca3af; border-radius: 1em; }
footer { margin-top: 2em; font-size: .8em; color: #6b7280; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<p>Patient : {{.Patient}}<br>Date du rapport : {{.ReportDate}}</p>
<section>
<h2>Synthèse Générale <span class="risk">Niveau de Suspicion : {{.RiskLevel}}</span></h2>
<ul>{{range .Summary}}
<li>{{.}}</li>{{end}}
</ul>
</section>
<section>
<h2>Propositions et Conseils</h2>
<ul>{{range .Recommendations}}
<li>{{.}}</li>{{end}}
</ul>
</section>
<footer>Rapport {{.ID}} imprimé le {{.GeneratedAt.Format "02/01/2006 15:04"}}</footer>
</body>
</html>
`))
