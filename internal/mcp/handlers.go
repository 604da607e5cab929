package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/questionnaire"
	"github.com/sahos-screening-server/internal/report"
)

// EmptyParams is the input of tools that take no arguments.
type EmptyParams struct{}

// QuestionnaireParams selects a questionnaire.
type QuestionnaireParams struct {
	Questionnaire string `json:"questionnaire" jsonschema:"questionnaire id: epworth, berlin, stopBang or fosq10"`
}

// SubmitQuestionnaireParams defines parameters for submit_questionnaire tool
type SubmitQuestionnaireParams struct {
	Questionnaire string         `json:"questionnaire" jsonschema:"questionnaire id: epworth, berlin, stopBang or fosq10"`
	Answers       map[string]int `json:"answers" jsonschema:"selected option value keyed by question id"`
}

// UpdateFieldsParams defines parameters for update_session_fields tool
type UpdateFieldsParams struct {
	Updates []domain.WireUpdate `json:"updates" jsonschema:"form edits applied in order"`
}

// GoToStepParams defines parameters for go_to_step tool
type GoToStepParams struct {
	Step int `json:"step" jsonschema:"target step, 1 to 5"`
}

// PrintReportParams defines parameters for print_report tool
type PrintReportParams struct {
	Format string `json:"format,omitempty" jsonschema:"text (default) or html"`
}

// ResetSessionParams defines parameters for reset_session tool
type ResetSessionParams struct {
	Confirm bool `json:"confirm,omitempty" jsonschema:"must be true to discard the current session"`
}

// FormOptions is the result of get_form_options.
type FormOptions struct {
	Steps              []domain.Step  `json:"steps"`
	Gender             []domain.Label `json:"gender"`
	Smoking            []domain.Label `json:"smoking"`
	Antecedents        []domain.Label `json:"antecedents"`
	OtherHistory       []domain.Label `json:"otherHistory"`
	Symptoms           []domain.Label `json:"symptoms"`
	AdditionalSymptoms []domain.Label `json:"additionalSymptoms"`
	Motivations        []domain.Label `json:"motivations"`
	Mallampati         []string       `json:"mallampati"`
	TonsilSize         []string       `json:"tonsilSize"`
}

// QuestionnaireSummary is one entry of list_questionnaires.
type QuestionnaireSummary struct {
	Type  domain.QuestionnaireType `json:"id"`
	Title string                   `json:"title"`
	Score *int                     `json:"score,omitempty"`
}

func (s *Server) handleGetFormOptions(ctx context.Context, req *mcp.CallToolRequest, params EmptyParams) (*mcp.CallToolResult, any, error) {
	return s.jsonResult("Intake steps and field options", FormOptions{
		Steps:              domain.Steps,
		Gender:             domain.GenderLabels,
		Smoking:            domain.SmokingLabels,
		Antecedents:        domain.AntecedentLabels,
		OtherHistory:       domain.OtherHistoryLabels,
		Symptoms:           domain.SymptomLabels,
		AdditionalSymptoms: domain.AdditionalSymptomLabels,
		Motivations:        domain.MotivationLabels,
		Mallampati:         domain.MallampatiClasses,
		TonsilSize:         domain.TonsilGrades,
	})
}

func (s *Server) handleListQuestionnaires(ctx context.Context, req *mcp.CallToolRequest, params EmptyParams) (*mcp.CallToolResult, any, error) {
	scores := s.intake.Session().QuestionnaireScores

	var summaries []QuestionnaireSummary
	for _, def := range questionnaire.Catalog() {
		summary := QuestionnaireSummary{Type: def.Type, Title: def.Title}
		if score, ok := scores.Get(def.Type); ok {
			summary.Score = &score
		}
		summaries = append(summaries, summary)
	}
	return s.jsonResult(fmt.Sprintf("%d questionnaires", len(summaries)), summaries)
}

func (s *Server) handleGetQuestionnaire(ctx context.Context, req *mcp.CallToolRequest, params QuestionnaireParams) (*mcp.CallToolResult, any, error) {
	form, err := s.intake.Questionnaire(domain.QuestionnaireType(params.Questionnaire))
	if err != nil {
		return s.errorResult("get_questionnaire", err, params.Questionnaire)
	}
	return s.jsonResult(form.Title, form)
}

func (s *Server) handleSubmitQuestionnaire(ctx context.Context, req *mcp.CallToolRequest, params SubmitQuestionnaireParams) (*mcp.CallToolResult, any, error) {
	result, err := s.intake.SubmitQuestionnaire(ctx, domain.QuestionnaireType(params.Questionnaire), params.Answers)
	if err != nil {
		return s.errorResult("submit_questionnaire", err, "")
	}
	return s.jsonResult(result.Interpretation.Text, result)
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, params EmptyParams) (*mcp.CallToolResult, any, error) {
	session := s.intake.Session()
	return s.jsonResult(fmt.Sprintf("Current step %d, completed %v", session.CurrentStep, session.CompletedSteps), session)
}

func (s *Server) handleUpdateFields(ctx context.Context, req *mcp.CallToolRequest, params UpdateFieldsParams) (*mcp.CallToolResult, any, error) {
	updates, err := domain.DecodeUpdates(params.Updates)
	if err != nil {
		return s.errorResult("update_session_fields", err, "")
	}

	session, err := s.intake.ApplyUpdates(ctx, updates...)
	if err != nil {
		return s.errorResult("update_session_fields", err, "")
	}
	return s.jsonResult(fmt.Sprintf("Applied %d updates", len(updates)), session)
}

func (s *Server) handleNextStep(ctx context.Context, req *mcp.CallToolRequest, params EmptyParams) (*mcp.CallToolResult, any, error) {
	session, err := s.intake.NextStep(ctx)
	if err != nil {
		return s.errorResult("next_step", err, "")
	}
	return s.jsonResult(fmt.Sprintf("Moved to step %d", session.CurrentStep), session)
}

func (s *Server) handlePreviousStep(ctx context.Context, req *mcp.CallToolRequest, params EmptyParams) (*mcp.CallToolResult, any, error) {
	session := s.intake.PreviousStep(ctx)
	return s.jsonResult(fmt.Sprintf("Moved to step %d", session.CurrentStep), session)
}

func (s *Server) handleGoToStep(ctx context.Context, req *mcp.CallToolRequest, params GoToStepParams) (*mcp.CallToolResult, any, error) {
	session, err := s.intake.GoToStep(ctx, domain.StepID(params.Step))
	if err != nil {
		return s.errorResult("go_to_step", err, "")
	}
	return s.jsonResult(fmt.Sprintf("Moved to step %d", session.CurrentStep), session)
}

func (s *Server) handleGenerateConclusion(ctx context.Context, req *mcp.CallToolRequest, params EmptyParams) (*mcp.CallToolResult, any, error) {
	conclusion, err := s.intake.GenerateConclusion(ctx)
	if err != nil {
		return s.errorResult("generate_conclusion", err, "")
	}

	s.logger.WithFields(logrus.Fields{
		"tool":       "generate_conclusion",
		"risk_level": conclusion.RiskLevel,
	}).Info("Tool invoked")
	return s.jsonResult("Niveau de Suspicion : "+conclusion.RiskLevel.String(), conclusion)
}

func (s *Server) handlePrintReport(ctx context.Context, req *mcp.CallToolRequest, params PrintReportParams) (*mcp.CallToolResult, any, error) {
	format, err := report.ParseFormat(params.Format)
	if err != nil {
		return s.errorResult("print_report", err, "")
	}

	var buf bytes.Buffer
	doc, err := s.printer.Write(&buf, s.intake.Session(), format)
	if err != nil {
		return s.errorResult("print_report", err, "")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: buf.String()}},
		Meta:    map[string]any{"report_id": doc.ID, "format": string(format)},
	}, nil, nil
}

func (s *Server) handleResetSession(ctx context.Context, req *mcp.CallToolRequest, params ResetSessionParams) (*mcp.CallToolResult, any, error) {
	var prompt string
	session, err := s.intake.Reset(ctx, func(p string) bool {
		prompt = p
		return params.Confirm
	})
	if err != nil {
		return s.errorResult("reset_session", err, prompt)
	}
	return s.jsonResult("New report started", session)
}
