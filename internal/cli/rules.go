package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mcoot/backlogbingo/internal/api/request"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/model"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Game rules commands",
	}

	cmd.AddCommand(newRulesGetCmd())
	cmd.AddCommand(newRulesSetCmd())
	cmd.AddCommand(newRulesResetCmd())

	return cmd
}

func newRulesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the profile's game rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RulesResponse

			if err := client.Get(cmd.Context(), "/api/v1/rules", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// rulesFlags binds one flag per game rule. Only flags that were set end up
// in the patch.
type rulesFlags struct {
	winCondition string
	gridSize     string
	star         string
	golf         bool
	allowSimilar bool
	seed         string
}

func (f *rulesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.winCondition, "win", "", "Win condition: row-col-diag, row-col, blackout")
	cmd.Flags().StringVar(&f.gridSize, "grid-size", "", "Grid size: small, medium, large")
	cmd.Flags().StringVar(&f.star, "star", "", "Centre star tile: disabled, free, wildcard")
	cmd.Flags().BoolVar(&f.golf, "golf", false, "Play golf: fewest categories wins")
	cmd.Flags().BoolVar(&f.allowSimilar, "allow-similar", false, "Allow categories from the same group")
	cmd.Flags().StringVar(&f.seed, "seed", "", "Seed for reproducible cards, empty for random")
}

func (f *rulesFlags) patch(cmd *cobra.Command) model.RulesPatch {
	var p model.RulesPatch
	flags := cmd.Flags()
	if flags.Changed("win") {
		w := model.WinCondition(f.winCondition)
		p.WinCondition = &w
	}
	if flags.Changed("grid-size") {
		g := model.GridSize(f.gridSize)
		p.GridSize = &g
	}
	if flags.Changed("star") {
		s := model.StarMode(f.star)
		p.Star = &s
	}
	if flags.Changed("golf") {
		p.Golf = &f.golf
	}
	if flags.Changed("allow-similar") {
		p.AllowSimilar = &f.allowSimilar
	}
	if flags.Changed("seed") {
		p.Seed = &f.seed
	}
	return p
}

func newRulesSetCmd() *cobra.Command {
	var flags rulesFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change individual game rules",
		Example: `  bingo rules set --grid-size small --star free
  bingo rules set --seed "my backlog"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := flags.patch(cmd)
			if patch.IsEmpty() {
				return errors.New("no rules given")
			}

			var result response.RulesResponse

			if err := client.Patch(cmd.Context(), "/api/v1/rules", patch, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newRulesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reset <mode>",
		Short:     "Reset the rules to a game mode preset",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.GameModeStandard), string(model.GameModeGolf)},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ResetRulesRequest{Mode: model.GameMode(args[0])}
			var result response.RulesResponse

			if err := client.Post(cmd.Context(), "/api/v1/rules/reset", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
