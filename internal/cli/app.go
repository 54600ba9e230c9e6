// Package cli implements the tombench command line: batch generation, QA
// construction, model evaluation and pattern analysis over JSON files.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Harshitk-cp/tombench/internal/buildconfig"
	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/llm"
	"github.com/Harshitk-cp/tombench/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AnswererFactory builds the model client for a provider name.
type AnswererFactory func(provider, apiKey, model string) (domain.Answerer, error)

type App struct {
	root        *cobra.Command
	stdout      io.Writer
	stderr      io.Writer
	logger      *zap.Logger
	verbose     bool
	newAnswerer AnswererFactory
}

func New() *App {
	app := &App{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		newAnswerer: llm.NewClient,
	}

	app.root = &cobra.Command{
		Use:   "tombench",
		Short: "False-belief story generator and theory-of-mind benchmark",
		Long: `tombench simulates agents moving objects between containers and rooms,
keeps stories in which some agent ends up with a false belief, derives
ground-truth questions from them and scores language models on the answers.

Typical pipeline:
  tombench generate --out stories.json
  tombench qa --stories stories.json --out qa_sets.json
  tombench evaluate --qa qa_sets.json --provider openai --out results.json
  tombench analyze accuracy --stories stories.json --results results.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	app.root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log progress to stderr")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newGenerateCmd(),
		app.newQACmd(),
		app.newEvaluateCmd(),
		app.newAnalyzeCmd(),
	)
	return app
}

func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithLogger replaces the logger built from flags and LOG_LEVEL.
func (a *App) WithLogger(logger *zap.Logger) *App {
	a.logger = logger
	return a
}

// WithAnswererFactory replaces llm.NewClient, mostly for tests.
func (a *App) WithAnswererFactory(f AnswererFactory) *App {
	a.newAnswerer = f
	return a
}

func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) setup() error {
	if err := config.Load(); err != nil {
		return err
	}
	if a.logger != nil {
		return nil
	}
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.NewConsole(level)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "tombench version %s\n", buildconfig.Version())
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", buildconfig.Commit())
		},
	}
}
