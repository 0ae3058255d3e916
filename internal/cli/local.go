package cli

import (
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/factory"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/card"
	"github.com/mcoot/backlogbingo/internal/services/sample"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

func newLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Build cards from a card source file without a server",
	}

	cmd.AddCommand(newLocalGenerateCmd())
	cmd.AddCommand(newLocalSampleCmd())

	return cmd
}

// loadLocalSource reads a card source file and works out the rules to build
// with: the standard preset, then the source's defaults, then any flags
func loadLocalSource(cmd *cobra.Command, path string, flags *rulesFlags) (*model.CardSource, model.GameRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.GameRules{}, fmt.Errorf("failed to read card source: %w", err)
	}

	doc, err := source.Decode(data, source.FormatFromPath(path, source.FormatJSON))
	if err != nil {
		return nil, model.GameRules{}, err
	}
	src, err := doc.CardSource()
	if err != nil {
		return nil, model.GameRules{}, err
	}

	gameRules := model.DefaultGameRules()
	if src.GameRules != nil {
		gameRules = src.GameRules.Apply(gameRules)
	}
	gameRules = flags.patch(cmd).Apply(gameRules)
	if err := gameRules.Validate(); err != nil {
		return nil, model.GameRules{}, err
	}
	return src, gameRules, nil
}

func newLocalApp(cmd *cobra.Command) (*factory.App, error) {
	return factory.New(factory.Config{
		Logger:      logger(cmd),
		StorageType: factory.StorageTypeMemory,
	})
}

func newLocalGenerateCmd() *cobra.Command {
	var (
		flags rulesFlags
		name  string
	)

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate a card from a card source file",
		Example: `  bingo local generate backlog.yaml
  bingo local generate backlog.json --grid-size small --seed "2025"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, gameRules, err := loadLocalSource(cmd, args[0], &flags)
			if err != nil {
				return err
			}

			app, err := newLocalApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if name == "" {
				name = src.Name
			}
			result, err := app.CardService.Preview(name, src.Categories, gameRules)
			if err != nil {
				return err
			}
			grid, err := card.Output(result.Card, gameRules)
			if err != nil {
				return err
			}

			output(cmd).Print(response.GeneratedCardFromResult(result, grid))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Card name (defaults to the card source name)")
	return cmd
}

func newLocalSampleCmd() *cobra.Command {
	var (
		flags      rulesFlags
		count      int
		seedPrefix string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "sample <file>",
		Short: "Generate many cards and report how often each category is drawn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, gameRules, err := loadLocalSource(cmd, args[0], &flags)
			if err != nil {
				return err
			}

			app, err := newLocalApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			var progress func(int)
			if !noProgress {
				bar := pb.New(count).SetWriter(cmd.ErrOrStderr())
				bar.Set(pb.CleanOnFinish, true)
				bar.Start()
				defer bar.Finish()
				progress = func(done int) { bar.SetCurrent(int64(done)) }
			}

			report, err := app.SampleAnalyzer.Run(cmd.Context(), src.Categories, sample.Options{
				Count:      count,
				Rules:      gameRules,
				SeedPrefix: seedPrefix,
			}, progress)
			if err != nil {
				return err
			}

			output(cmd).Print(report)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 1000, "Number of cards to generate")
	cmd.Flags().StringVar(&seedPrefix, "seed-prefix", "", "Seed card i with <prefix>-<i> for a reproducible run")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}
