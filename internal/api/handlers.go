package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/middleware"
	"github.com/sahos-screening-server/internal/questionnaire"
	"github.com/sahos-screening-server/internal/report"
)

type questionnaireSummary struct {
	Type        domain.QuestionnaireType `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Icon        string                   `json:"icon"`
	Score       *int                     `json:"score,omitempty"`
}

type submitRequest struct {
	Answers questionnaire.Answers `json:"answers" binding:"required"`
}

type updateFieldsRequest struct {
	Updates []domain.WireUpdate `json:"updates" binding:"required"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	cfg := s.configManager.GetConfig()
	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"version":   cfg.MCP.ServerVersion,
	}
	if stats := s.intake.CacheStats(); stats != nil {
		body["conclusion_cache"] = stats
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleListSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"steps": domain.Steps})
}

func (s *Server) handleListOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"gender":             domain.GenderLabels,
		"smoking":            domain.SmokingLabels,
		"antecedents":        domain.AntecedentLabels,
		"otherHistory":       domain.OtherHistoryLabels,
		"symptoms":           domain.SymptomLabels,
		"additionalSymptoms": domain.AdditionalSymptomLabels,
		"motivations":        domain.MotivationLabels,
		"mallampati":         domain.MallampatiClasses,
		"tonsilSize":         domain.TonsilGrades,
	})
}

func (s *Server) handleListQuestionnaires(c *gin.Context) {
	scores := s.intake.Session().QuestionnaireScores

	summaries := make([]questionnaireSummary, 0, len(questionnaire.Catalog()))
	for _, def := range questionnaire.Catalog() {
		summary := questionnaireSummary{
			Type:        def.Type,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
		}
		if score, ok := scores.Get(def.Type); ok {
			summary.Score = &score
		}
		summaries = append(summaries, summary)
	}
	c.JSON(http.StatusOK, gin.H{"questionnaires": summaries})
}

func (s *Server) handleGetQuestionnaire(c *gin.Context) {
	form, err := s.intake.Questionnaire(domain.QuestionnaireType(c.Param("type")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (s *Server) handleSubmitQuestionnaire(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewValidationError("answers", questionnaire.IncompleteMessage, nil))
		return
	}

	result, err := s.intake.SubmitQuestionnaire(c.Request.Context(), domain.QuestionnaireType(c.Param("type")), req.Answers)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.intake.Session())
}

func (s *Server) handleUpdateFields(c *gin.Context) {
	var req updateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewValidationError("updates", "invalid update payload: "+err.Error(), nil))
		return
	}

	updates, err := domain.DecodeUpdates(req.Updates)
	if err != nil {
		s.respondError(c, err)
		return
	}

	session, err := s.intake.ApplyUpdates(c.Request.Context(), updates...)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// handleResetSession resets only with ?confirm=true. Without it the response
// carries the confirmation prompt to display.
func (s *Server) handleResetSession(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	var prompt string
	session, err := s.intake.Reset(c.Request.Context(), func(p string) bool {
		prompt = p
		return confirmed
	})
	if err != nil {
		c.JSON(statusForCode(domain.ErrorCode(err)), domain.NewIntakeError(
			domain.ErrorCode(err), domain.UserMessage(err), prompt, c.GetString(middleware.RequestIDKey)))
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleNextStep(c *gin.Context) {
	session, err := s.intake.NextStep(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handlePreviousStep(c *gin.Context) {
	c.JSON(http.StatusOK, s.intake.PreviousStep(c.Request.Context()))
}

func (s *Server) handleGoToStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		s.respondError(c, domain.ErrInvalidStep)
		return
	}

	session, err := s.intake.GoToStep(c.Request.Context(), domain.StepID(step))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleGenerateConclusion(c *gin.Context) {
	conclusion, err := s.intake.GenerateConclusion(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conclusion)
}

func (s *Server) handlePrintReport(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	doc, err := s.printer.Build(s.intake.Session())
	if err != nil {
		s.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, doc, format); err != nil {
		s.respondError(c, err)
		return
	}

	contentType := "text/plain; charset=utf-8"
	if format == report.FormatHTML {
		contentType = "text/html; charset=utf-8"
	}
	c.Header("X-Report-ID", doc.ID)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
