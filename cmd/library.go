package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"digicreative/internal/app"
	"digicreative/internal/render"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List exported drafts",
	Long:  `List drafts exported to the local export directory or the configured bucket, newest first.`,
	RunE:  runLibrary,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	exporter, err := app.BuildExporter(ctx, cfg)
	if err != nil {
		return err
	}
	if c, ok := exporter.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	entries, err := exporter.List(ctx)
	if err != nil {
		return fmt.Errorf("list drafts: %w", err)
	}

	fmt.Print(render.Library(entries))
	return nil
}
