// Package cli implements the operator subcommands of the MCP server binary.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/questionnaire"
	"github.com/sahos-screening-server/internal/report"
	"github.com/sahos-screening-server/internal/service"
)

// CLI runs one operator command against the persisted session.
type CLI struct {
	configManager domain.ConfigManager
	intake        *service.IntakeService
	store         domain.SessionStore
	printer       *report.Printer
	reader        *bufio.Reader
	out           io.Writer
	now           func() time.Time
}

// NewCLI creates a CLI reading confirmations from in and writing to out.
func NewCLI(configManager domain.ConfigManager, intake *service.IntakeService, store domain.SessionStore, printer *report.Printer, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		configManager: configManager,
		intake:        intake,
		store:         store,
		printer:       printer,
		reader:        bufio.NewReader(in),
		out:           out,
		now:           time.Now,
	}
}

// IsCommand reports whether name is an operator subcommand.
func IsCommand(name string) bool {
	switch name {
	case "status", "report", "reset", "export", "import", "register-client", "help", "--help", "-h":
		return true
	}
	return false
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	switch args[0] {
	case "status":
		return c.showStatus()
	case "report":
		return c.printReport(args[1:])
	case "reset":
		return c.resetSession(ctx, args[1:])
	case "export":
		return c.exportSession(ctx, args[1:])
	case "import":
		return c.importSession(ctx, args[1:])
	case "register-client":
		return c.registerClient(args[1:])
	case "help", "--help", "-h":
		return c.showHelp()
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n\n", args[0])
		return c.showHelp()
	}
}

func (c *CLI) showHelp() error {
	help := `
SAHOS Screening Server

Usage:
  mcp-server                     Serve the MCP tools over stdio
  mcp-server <command> [options]

Commands:
  status            Show the current step, scores and risk level
  report            Print the report of the generated conclusion
                      --html            render HTML instead of text
                      --output, -o FILE write to FILE
  reset             Discard the current session and start a new report
                      --yes, -y         skip the confirmation
  export            Write the session as JSON
                      --output, -o FILE write to FILE (default: data dir exports/)
  import FILE       Replace the session with an exported one
  register-client   Add this server to the desktop MCP client configuration
                      --config FILE     client config file
                      --binary FILE     server binary (default: this executable)
`
	fmt.Fprintln(c.out, help)
	return nil
}

func (c *CLI) showStatus() error {
	session := c.intake.Session()

	fmt.Fprintln(c.out, "SAHOS Session Status")
	fmt.Fprintln(c.out, "====================")
	fmt.Fprintf(c.out, "Database: %s\n", c.configManager.SessionDBPath())
	fmt.Fprintf(c.out, "Current step: %d/%d\n", session.CurrentStep, domain.StepCount)
	fmt.Fprintf(c.out, "Completed steps: %s\n", formatSteps(session.CompletedSteps))
	fmt.Fprintln(c.out, "Questionnaires:")
	for _, def := range questionnaire.Catalog() {
		score := "not completed"
		if value, ok := session.QuestionnaireScores.Get(def.Type); ok {
			score = fmt.Sprintf("%d", value)
		}
		fmt.Fprintf(c.out, "  %-10s %s\n", def.Type, score)
	}

	if session.AppConclusion == nil {
		fmt.Fprintln(c.out, "Risk level: no conclusion yet")
	} else {
		fmt.Fprintf(c.out, "Risk level: %s\n", session.AppConclusion.RiskLevel)
	}
	return nil
}

func formatSteps(steps []domain.StepID) string {
	if len(steps) == 0 {
		return "none"
	}
	parts := make([]string, len(steps))
	for i, step := range steps {
		parts[i] = fmt.Sprintf("%d", step)
	}
	return strings.Join(parts, ", ")
}

func (c *CLI) printReport(args []string) error {
	format := report.FormatText
	var output string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--html":
			format = report.FormatHTML
		case "--output", "-o":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	w := c.out
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		w = file
	}

	doc, err := c.printer.Write(w, c.intake.Session(), format)
	if err != nil {
		if errors.Is(err, domain.ErrNoConclusion) {
			return fmt.Errorf("no conclusion to print, generate it first: %w", err)
		}
		return err
	}

	if output != "" {
		fmt.Fprintf(c.out, "Report %s written to %s\n", doc.ID, output)
	}
	return nil
}

func (c *CLI) resetSession(ctx context.Context, args []string) error {
	var confirm func(string) bool = c.confirm
	for _, arg := range args {
		if arg == "--yes" || arg == "-y" {
			confirm = nil
		}
	}

	if _, err := c.intake.Reset(ctx, confirm); err != nil {
		if errors.Is(err, domain.ErrResetNotConfirmed) {
			fmt.Fprintln(c.out, "Reset cancelled.")
			return nil
		}
		return err
	}

	fmt.Fprintln(c.out, "✓ New report started")
	return nil
}

func (c *CLI) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	response, _ := c.reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes" || response == "o" || response == "oui"
}

func (c *CLI) exportSession(ctx context.Context, args []string) error {
	var output string
	for i := 0; i < len(args); i++ {
		if (args[i] == "--output" || args[i] == "-o") && i+1 < len(args) {
			output = args[i+1]
			i++
		}
	}

	if output == "" {
		output = filepath.Join(c.configManager.ExportDir(), fmt.Sprintf("session-%s.json", c.now().Format("20060102-150405")))
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := c.store.ExportJSON(ctx, file); err != nil {
		os.Remove(output)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no stored session to export: %w", err)
		}
		return err
	}

	fmt.Fprintf(c.out, "✓ Session exported to %s\n", output)
	return nil
}

func (c *CLI) importSession(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires a file argument")
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	if err := c.store.ImportJSON(ctx, file); err != nil {
		return fmt.Errorf("failed to import session: %w", err)
	}

	session := c.intake.Load(ctx)
	fmt.Fprintf(c.out, "✓ Session imported (current step %d)\n", session.CurrentStep)
	return nil
}

func (c *CLI) registerClient(args []string) error {
	var configPath, binaryPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case "--binary", "-b":
			if i+1 < len(args) {
				binaryPath = args[i+1]
				i++
			}
		}
	}

	if configPath == "" {
		path, err := DefaultClientConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}
	if binaryPath == "" {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to resolve server binary: %w", err)
		}
		binaryPath = execPath
	}

	dataDir := c.configManager.GetStorageConfig().DataDir
	if abs, err := filepath.Abs(dataDir); err == nil {
		dataDir = abs
	}

	if _, err := RegisterServer(configPath, binaryPath, dataDir); err != nil {
		return fmt.Errorf("failed to register server: %w", err)
	}

	fmt.Fprintf(c.out, "✓ %s registered in %s\n", ServerName, configPath)
	fmt.Fprintln(c.out, "Restart the client to load the new configuration.")
	return nil
}
