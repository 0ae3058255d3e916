package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/backlogbingo/internal/api/response"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile management commands",
	}

	cmd.AddCommand(newProfileCreateCmd())
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileDeleteCmd())

	return cmd
}

func newProfileCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a profile and save its token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CreateProfileResponse

			if err := client.Post(cmd.Context(), "/api/v1/profiles", nil, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Profile

			if err := client.Get(cmd.Context(), "/api/v1/profile", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the profile along with its rules, source and card",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/profile"); err != nil {
				return err
			}

			if err := cfg.ForgetToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			output(cmd).PrintMessage("Profile deleted")
			return nil
		},
	}
}
