package cli

import (
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/filestore"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	storiesPath string
	resultsPath string
	setting     string
	outPath     string
	worldPath   string
	legacy      bool
}

func (a *App) newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Break stories and results down by initial room pattern",
		Long: `A room pattern describes a story's opening scene: per room, one A per
agent, one C per container and one O per object, rooms sorted and joined
with "/". Patterns are grouped under a parent that only counts agents,
e.g. "AA/A/".`,
	}

	cmd.PersistentFlags().StringVarP(&opts.storiesPath, "stories", "s", "stories.json", "Stories input file")
	cmd.PersistentFlags().StringVar(&opts.setting, "setting", "A3_O3_C3", "Setting label to analyze")
	cmd.PersistentFlags().StringVar(&opts.worldPath, "world", "", "World catalog used to recognise rooms in legacy stories")
	cmd.PersistentFlags().BoolVar(&opts.legacy, "legacy", false, "Stories are in the text-only format")

	patterns := &cobra.Command{
		Use:   "patterns",
		Short: "Count stories per room pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyzePatterns(opts)
		},
	}
	patterns.Flags().StringVarP(&opts.outPath, "out", "o", "pattern_distribution.json", "Report output file")

	accuracy := &cobra.Command{
		Use:   "accuracy",
		Short: "Model accuracy per room pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyzeAccuracy(opts)
		},
	}
	accuracy.Flags().StringVarP(&opts.resultsPath, "results", "r", "evaluation_results.json", "Evaluation results input file")
	accuracy.Flags().StringVarP(&opts.outPath, "out", "o", "pattern_accuracy.json", "Report output file")

	cmd.AddCommand(patterns, accuracy)
	return cmd
}

func (a *App) analyzePatterns(opts *analyzeOptions) error {
	setting, err := domain.ParseSetting(opts.setting)
	if err != nil {
		return err
	}
	stories, err := a.loadStories(opts.storiesPath, opts.legacy, opts.worldPath)
	if err != nil {
		return err
	}

	report := service.NewAnalysisService(a.logger).PatternDistribution(stories, setting)
	if err := filestore.WriteJSON(opts.outPath, report); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s: %d stories, %d categorized, %d skipped -> %s\n",
		report.Setting, report.TotalStories, report.Categorized, report.Skipped, opts.outPath)
	for parent, n := range report.ParentCounts {
		fmt.Fprintf(a.stdout, "  %-10q %d\n", parent, n)
	}
	return nil
}

func (a *App) analyzeAccuracy(opts *analyzeOptions) error {
	setting, err := domain.ParseSetting(opts.setting)
	if err != nil {
		return err
	}
	stories, err := a.loadStories(opts.storiesPath, opts.legacy, opts.worldPath)
	if err != nil {
		return err
	}
	var results []domain.EvaluationResult
	if err := filestore.ReadJSON(opts.resultsPath, &results); err != nil {
		return err
	}

	report := service.NewAnalysisService(a.logger).PatternAccuracy(stories, results, setting)
	if err := filestore.WriteJSON(opts.outPath, report); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s accuracy by parent pattern -> %s\n", report.Setting, opts.outPath)
	for _, row := range report.ByParent {
		fmt.Fprintf(a.stdout, "  %-10q %3d stories  %d/%d (%s)\n",
			row.Pattern, row.StoryCount, row.Overall.Correct, row.Overall.Total, row.Overall.Percent)
	}
	return nil
}
