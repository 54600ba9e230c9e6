package cli

import (
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/filestore"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	qaPath      string
	outPath     string
	summaryPath string
	provider    string
	model       string
	concurrency int
	rps         float64
}

func (a *App) newEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Ask a language model every question and score the answers",
		Long: `Send each question with its story to a model and score the reply against
the ground truth. Failed calls are recorded as "ERROR: API call failed" and
scored as wrong; the run continues.

Providers: openai, anthropic, gemini, cerebras, mock. API keys come from the
environment (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...).

Examples:
  tombench evaluate --qa qa_sets.json --provider openai --model gpt-4.1-mini
  tombench evaluate --qa qa_sets.json --provider anthropic --rps 1 --concurrency 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.evaluate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.qaPath, "qa", "q", "qa_sets.json", "QA sets input file")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "evaluation_results.json", "Per-question results output file")
	cmd.Flags().StringVar(&opts.summaryPath, "summary", "evaluation_summary.json", "Accuracy summary output file")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Model provider; defaults to LLM_PROVIDER")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name; defaults to LLM_MODEL or the provider default")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Questions in flight; defaults to EVAL_CONCURRENCY")
	cmd.Flags().Float64Var(&opts.rps, "rps", 0, "Model calls per second; defaults to EVAL_RPS")

	return cmd
}

func (a *App) evaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	if opts.provider == "" {
		opts.provider = config.LLMProvider()
	}
	if opts.model == "" {
		opts.model = config.LLMModel()
	}
	if opts.concurrency <= 0 {
		opts.concurrency = config.EvalConcurrency()
	}
	if opts.rps <= 0 {
		opts.rps = config.EvalRPS()
	}

	answerer, err := a.newAnswerer(opts.provider, config.APIKeyFor(opts.provider), opts.model)
	if err != nil {
		return err
	}

	var sets []domain.QASet
	if err := filestore.ReadJSON(opts.qaPath, &sets); err != nil {
		return err
	}

	svc := service.NewEvaluationService(answerer, opts.concurrency, opts.rps, a.logger)
	results, summary, err := svc.Evaluate(cmd.Context(), sets)
	if err != nil {
		return err
	}

	if err := filestore.WriteJSON(opts.outPath, results); err != nil {
		return err
	}
	if err := filestore.WriteJSON(opts.summaryPath, summary); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Model %s: %d/%d correct (%.1f%%) -> %s\n",
		summary.Model, summary.OverallAccuracy.Correct, summary.OverallAccuracy.Total,
		summary.OverallAccuracy.Accuracy*100, opts.outPath)
	for _, c := range domain.AllQACategories() {
		acc, ok := summary.AccuracyByCategory[c]
		if !ok {
			continue
		}
		fmt.Fprintf(a.stdout, "  %-18s %d/%d (%.1f%%)\n", c, acc.Correct, acc.Total, acc.Accuracy*100)
	}
	return nil
}
