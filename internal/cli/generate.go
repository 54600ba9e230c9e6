package cli

import (
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/filestore"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	worldPath        string
	configPath       string
	outPath          string
	distributionPath string
	yieldPath        string
	seed             uint64
}

func (a *App) newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of false-belief stories",
		Long: `Generate stories for every setting of a batch config.

Per setting, stories are collected for each action sequence until the pool is
full or the attempt ceiling is reached, then a sample is drawn. Settings whose
pool stays below min_pool are skipped with a warning.

Examples:
  # Defaults: seven settings, 1000 stories each
  tombench generate --out stories.json

  # Small reproducible run from a YAML config, compressed output
  tombench generate -c batch.yaml --seed 7 --out stories.json.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.worldPath, "world", "", "World catalog (JSON or YAML); defaults to WORLD_PATH")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Batch config YAML")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "stories.json", "Stories output file")
	cmd.Flags().StringVar(&opts.distributionPath, "distribution", "distribution_analysis.json", "Sequence distribution report")
	cmd.Flags().StringVar(&opts.yieldPath, "yield", "", "Optional per-sequence yield report")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed; overrides config and TOMBENCH_SEED")

	return cmd
}

func (a *App) generate(cmd *cobra.Command, opts *generateOptions) error {
	if opts.worldPath == "" {
		opts.worldPath = config.WorldPath()
	}
	world, err := filestore.LoadWorld(opts.worldPath, a.logger)
	if err != nil {
		return err
	}

	cfg, err := config.LoadBatch(opts.configPath)
	if err != nil {
		return fmt.Errorf("batch config: %w", err)
	}
	switch {
	case cmd.Flags().Changed("seed"):
		cfg.Seed = opts.seed
	case cfg.Seed == 0:
		cfg.Seed = config.Seed()
	}

	batch, stories, err := service.NewGeneratorService(a.logger).GenerateBatch(cmd.Context(), world, cfg)
	if err != nil {
		return err
	}

	if err := filestore.WriteJSON(opts.outPath, stories); err != nil {
		return err
	}
	if opts.distributionPath != "" {
		if err := filestore.WriteJSON(opts.distributionPath, batch.Distribution); err != nil {
			return err
		}
	}
	if opts.yieldPath != "" {
		if err := filestore.WriteJSON(opts.yieldPath, batch.Yield); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.stdout, "Generated %d stories (seed %d) -> %s\n", len(stories), batch.Seed, opts.outPath)
	for _, s := range cfg.Settings {
		if d, ok := batch.Distribution[s.Label]; ok {
			fmt.Fprintf(a.stdout, "  %-12s %d stories\n", s.Label, d.TotalSamples)
		}
	}
	for _, sk := range batch.Skipped {
		fmt.Fprintf(a.stdout, "  %-12s skipped (%s, pool %d)\n", sk.Setting, sk.Reason, sk.Pool)
	}
	return nil
}
