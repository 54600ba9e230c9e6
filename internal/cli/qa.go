package cli

import (
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/filestore"
	"github.com/Harshitk-cp/tombench/internal/service"
	"github.com/spf13/cobra"
)

type qaOptions struct {
	storiesPath string
	outPath     string
	worldPath   string
	legacy      bool
	seed        uint64
}

func (a *App) newQACmd() *cobra.Command {
	opts := &qaOptions{}

	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Build question/answer sets from generated stories",
		Long: `Replay every story, derive ground-truth questions and sample one per category:
memory, reality, first- and second-order true and false belief.

Stories written by "tombench generate" are replayed from their structured
actions. With --legacy, text-only stories are parsed back; any sentence
outside the story grammar aborts the run.

Examples:
  tombench qa --stories stories.json --out qa_sets.json
  tombench qa --stories old_stories.json --legacy --world world.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.buildQA(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.storiesPath, "stories", "s", "stories.json", "Stories input file")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "qa_sets.json", "QA sets output file")
	cmd.Flags().StringVar(&opts.worldPath, "world", "", "World catalog used to recognise rooms in legacy stories")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Input is the text-only story format")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed for question sampling")

	return cmd
}

func (a *App) buildQA(cmd *cobra.Command, opts *qaOptions) error {
	seed := opts.seed
	if !cmd.Flags().Changed("seed") {
		seed = config.Seed()
	}
	rng, seed := service.NewRand(seed)
	svc := service.NewQAService(a.logger)

	var (
		sets   []domain.QASet
		counts map[domain.QACategory]int
	)
	if opts.legacy {
		var stories []domain.LegacyStory
		if err := filestore.ReadJSON(opts.storiesPath, &stories); err != nil {
			return err
		}
		rooms, err := a.catalogRooms(opts.worldPath)
		if err != nil {
			return err
		}
		if sets, counts, err = svc.BuildLegacy(cmd.Context(), rng, stories, rooms); err != nil {
			return err
		}
	} else {
		var stories []domain.Story
		if err := filestore.ReadJSON(opts.storiesPath, &stories); err != nil {
			return err
		}
		var err error
		if sets, counts, err = svc.BuildAll(cmd.Context(), rng, stories); err != nil {
			return err
		}
	}

	if err := filestore.WriteJSON(opts.outPath, sets); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Built %d QA sets (seed %d) -> %s\n", len(sets), seed, opts.outPath)
	for _, c := range domain.AllQACategories() {
		fmt.Fprintf(a.stdout, "  %-18s %d\n", c, counts[c])
	}
	return nil
}
