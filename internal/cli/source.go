package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/backlogbingo/internal/api/request"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

func newSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Card source commands",
	}

	cmd.AddCommand(newSourceUploadCmd())
	cmd.AddCommand(newSourceFetchCmd())
	cmd.AddCommand(newSourceGetCmd())
	cmd.AddCommand(newSourceDeleteCmd())

	return cmd
}

// contentType picks the media type for a document from its file extension
func contentType(path string) string {
	if source.FormatFromPath(path, source.FormatJSON) == source.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

func newSourceUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a JSON or YAML card source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read card source: %w", err)
			}

			var result response.SourceLoadedResponse

			if err := client.Upload(cmd.Context(), http.MethodPut, "/api/v1/source", contentType(args[0]), data, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSourceFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Have the server download a card source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.FetchSourceRequest{URL: args[0]}
			var result response.SourceLoadedResponse

			if err := client.Post(cmd.Context(), "/api/v1/source/fetch", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSourceGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Summarise the stored card source",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result source.Summary

			if err := client.Get(cmd.Context(), "/api/v1/source", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newSourceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Discard the stored card source",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/source"); err != nil {
				return err
			}

			output(cmd).PrintMessage("Card source deleted")
			return nil
		},
	}
}
