package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahos-screening-server/internal/domain"
)

func testPrinter() *Printer {
	return &Printer{
		now:   func() time.Time { return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC) },
		newID: func() string { return "report-1" },
	}
}

func concludedSession() *domain.Session {
	s := domain.NewSession(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	s.Demographics.FirstName = "Jean"
	s.Demographics.LastName = "Dupont"
	s.AppConclusion = &domain.AppConclusion{
		Summary:         []string{"Rapport pour Jean Dupont", "STOP-BANG : 6 (Risque Élevé)."},
		Recommendations: []string{"Une polysomnographie est fortement recommandée <urgent>"},
		RiskLevel:       domain.RiskHigh,
	}
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" HTML ", FormatHTML, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Equal(t, domain.ErrCodeValidation, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_Build(t *testing.T) {
	doc, err := testPrinter().Build(concludedSession())
	require.NoError(t, err)

	assert.Equal(t, "report-1", doc.ID)
	assert.Equal(t, "Jean Dupont", doc.Patient)
	assert.Equal(t, "15/06/2025", doc.ReportDate)
	assert.Equal(t, domain.RiskHigh, doc.RiskLevel)
	assert.Equal(t, "Conclusion et Propositions", doc.Title)
	assert.Len(t, doc.Summary, 2)
}

func TestPrinter_NoConclusion(t *testing.T) {
	p := testPrinter()

	_, err := p.Build(domain.NewSession(time.Now()))
	assert.ErrorIs(t, err, domain.ErrNoConclusion)

	_, err = p.Write(&bytes.Buffer{}, nil, FormatText)
	assert.ErrorIs(t, err, domain.ErrNoConclusion)
}

func TestPrinter_WriteText(t *testing.T) {
	var buf bytes.Buffer
	_, err := testPrinter().Write(&buf, concludedSession(), FormatText)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Patient : Jean Dupont")
	assert.Contains(t, out, "Niveau de Suspicion : Élevé")
	assert.Contains(t, out, "  - STOP-BANG : 6 (Risque Élevé).")
	assert.Contains(t, out, "<urgent>")
	assert.Contains(t, out, "Rapport report-1 imprimé le 15/06/2025 10:30")
}

func TestPrinter_WriteHTML(t *testing.T) {
	var buf bytes.Buffer
	_, err := testPrinter().Write(&buf, concludedSession(), FormatHTML)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<li>Rapport pour Jean Dupont</li>")
	assert.Contains(t, out, "&lt;urgent&gt;")
	assert.NotContains(t, out, "<urgent>")
}

func TestNewPrinter_UniqueIDs(t *testing.T) {
	p := NewPrinter()
	a, err := p.Build(concludedSession())
	require.NoError(t, err)
	b, err := p.Build(concludedSession())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
