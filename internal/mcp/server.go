// Package mcp exposes the intake workflow as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/report"
	"github.com/sahos-screening-server/internal/service"
)

// Server is the MCP server driving the single intake session.
type Server struct {
	mcpServer *mcp.Server
	intake    *service.IntakeService
	printer   *report.Printer
	logger    *logrus.Logger
	tools     []string
}

// NewServer creates the MCP server and registers every intake tool.
func NewServer(cfg domain.MCPConfig, logger *logrus.Logger, intake *service.IntakeService, printer *report.Printer) *Server {
	serverInfo := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	server := &Server{
		mcpServer: mcp.NewServer(serverInfo, nil),
		intake:    intake,
		printer:   printer,
		logger:    logger,
	}
	server.registerTools()

	logger.WithFields(logrus.Fields{
		"server_name": cfg.ServerName,
		"tool_count":  len(server.tools),
	}).Info("MCP server initialized")
	return server
}

// Start serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// Run serves MCP over the given transport.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("Starting SAHOS screening MCP server...")
	if err := s.mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// ToolNames lists the registered tools in registration order.
func (s *Server) ToolNames() []string {
	return append([]string(nil), s.tools...)
}

func addTool[In any](s *Server, name, description string, handler mcp.ToolHandlerFor[In, any]) {
	mcp.AddTool(s.mcpServer, &mcp.Tool{Name: name, Description: description}, handler)
	s.tools = append(s.tools, name)
	s.logger.WithField("tool_name", name).Debug("Registered MCP tool")
}

func (s *Server) registerTools() {
	addTool(s, "get_form_options", "List the intake steps and the allowed values of every enumerated field (gender, smoking, Mallampati, tonsils, antecedents, symptoms, motivations).", s.handleGetFormOptions)
	addTool(s, "list_questionnaires", "List the screening questionnaires (Epworth, Berlin, STOP-BANG, FOSQ-10) with the recorded score of each.", s.handleListQuestionnaires)
	addTool(s, "get_questionnaire", "Get one questionnaire rendered for the current patient: visible questions, context lines and answer options.", s.handleGetQuestionnaire)
	addTool(s, "submit_questionnaire", "Score a questionnaire from answers keyed by question id and record the total. Returns the score and its interpretation.", s.handleSubmitQuestionnaire)
	addTool(s, "get_session", "Get the current intake session: demographics, consultation data, scores, conclusion and step progress.", s.handleGetSession)
	addTool(s, "update_session_fields", "Apply form edits. Each update has a category (demographics, consultation, antecedent, symptom, flag, sleepiness), a field and a value. All updates apply or none do.", s.handleUpdateFields)
	addTool(s, "next_step", "Validate the current step and move to the next one.", s.handleNextStep)
	addTool(s, "previous_step", "Move back one step.", s.handlePreviousStep)
	addTool(s, "go_to_step", "Jump to step 1, the current step or an already completed step.", s.handleGoToStep)
	addTool(s, "generate_conclusion", "Synthesize the conclusion from the collected data: summary, risk level (Faible, Modéré, Élevé) and recommendations.", s.handleGenerateConclusion)
	addTool(s, "print_report", "Render the printable report of the generated conclusion as text or HTML.", s.handlePrintReport)
	addTool(s, "reset_session", "Discard the current session and start a new report. Requires confirm=true.", s.handleResetSession)
}

// jsonResult returns a summary line followed by the JSON payload.
func (s *Server) jsonResult(summary string, payload any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary},
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// errorResult reports an intake failure as a tool error carrying an IntakeError payload.
func (s *Server) errorResult(tool string, err error, details string) (*mcp.CallToolResult, any, error) {
	var verr *domain.ValidationError
	if details == "" && errors.As(err, &verr) {
		details = verr.Field
	}
	payload := domain.NewIntakeError(domain.ErrorCode(err), domain.UserMessage(err), details, "")

	s.logger.WithFields(logrus.Fields{
		"tool":  tool,
		"code":  payload.Code,
		"error": err.Error(),
	}).Warn("Tool call failed")

	data, merr := json.Marshal(payload)
	if merr != nil {
		return nil, nil, fmt.Errorf("failed to encode error: %w", merr)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
