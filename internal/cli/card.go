package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
	"github.com/mcoot/backlogbingo/internal/api/request"
	"github.com/mcoot/backlogbingo/internal/api/response"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Commands for the card in play",
	}

	cmd.AddCommand(newCardGenerateCmd())
	cmd.AddCommand(newCardGetCmd())
	cmd.AddCommand(newCardMarkCmd())
	cmd.AddCommand(newCardClearCmd())
	cmd.AddCommand(newCardExportCmd())
	cmd.AddCommand(newCardImportCmd())

	return cmd
}

func newCardGenerateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a card from the stored card source",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.GenerateCardRequest{Name: name}
			var result response.GeneratedCardResponse

			if err := client.Post(cmd.Context(), "/api/v1/card", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Card name (defaults to the card source name)")
	return cmd
}

func newCardGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the card in play",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CardResponse

			err := client.Get(cmd.Context(), "/api/v1/card", &result)
			if IsCode(err, apierr.CodeCardNotFound) {
				output(cmd).PrintMessage("No card in play")
				return nil
			}
			if err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newCardMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <index> [entry...]",
		Short: "Record an entry against a cell, or clear it when no entry is given",
		Example: `  bingo card mark 3 Hollow Knight
  bingo card mark 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || index < 0 {
				return fmt.Errorf("invalid cell index %q", args[0])
			}

			req := request.SetEntryRequest{Entry: strings.Join(args[1:], " ")}
			var result response.CardResponse

			if err := client.Put(cmd.Context(), fmt.Sprintf("/api/v1/card/entries/%d", index), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newCardClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the card in play and unlock the rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/card"); err != nil {
				return err
			}

			output(cmd).PrintMessage("Card cleared")
			return nil
		},
	}
}

func newCardExportCmd() *cobra.Command {
	var dir, file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the card in play as an importable document",
		RunE: func(cmd *cobra.Command, args []string) error {
			download, err := client.Download(cmd.Context(), "/api/v1/card/export")
			if err != nil {
				return err
			}

			name := file
			if name == "" {
				name = download.Filename
			}
			if name == "" {
				name = "bingo-card.json"
			}
			path := filepath.Join(dir, filepath.Base(name))

			if err := os.WriteFile(path, download.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			output(cmd).PrintMessage("Card exported to " + path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the export to")
	cmd.Flags().StringVar(&file, "file", "", "File name (defaults to the name the server suggests)")
	return cmd
}

func newCardImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the card in play with an exported card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read export: %w", err)
			}

			var result response.CardResponse

			if err := client.Upload(cmd.Context(), http.MethodPost, "/api/v1/card/import", contentType(args[0]), data, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
