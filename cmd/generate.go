package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"digicreative/internal/app"
	"digicreative/internal/content"
	"digicreative/internal/render"
	"digicreative/internal/storage"
)

var (
	generateKind   string
	generatePrompt string
	generateGenre  string
	generateBrand  string
	generateExport bool
	generateJSON   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single piece of content",
	Long: `Generate one result for a module and print it. Stories also get a cover
image for their first chapter when the model provides an image prompt.`,
	Example: `  digicreative generate -k story -p "a lonely robot finds a friend"
  digicreative generate -k campaign -p "increase signups" --brand "DiGi Brand" --export`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateKind, "kind", "k", content.KindStory.String(), "Module kind (story, campaign, pdf, ugc, ...)")
	generateCmd.Flags().StringVarP(&generatePrompt, "prompt", "p", "", "What to create")
	generateCmd.Flags().StringVar(&generateGenre, "genre", "", "Story genre (default from config)")
	generateCmd.Flags().StringVar(&generateBrand, "brand", "", "Campaign brand (default from config)")
	generateCmd.Flags().BoolVarP(&generateExport, "export", "e", false, "Export the result as a completed draft")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the draft as JSON instead of formatted text")
	_ = generateCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, err := content.ParseKind(generateKind)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	studio, err := app.BuildStudio(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = studio.Close() }()

	outcome, err := studio.Generate(ctx, content.Request{
		Kind:   kind,
		Prompt: generatePrompt,
		Genre:  generateGenre,
		Brand:  generateBrand,
	})
	if err != nil {
		fmt.Println(render.Failure(app.FailureNotice))
		return err
	}

	if generateJSON {
		data, err := json.MarshalIndent(content.NewDraft(outcome.Result, outcome.Preview, content.StatusCompleted), "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printOutcome(outcome, cfg.Export.Dir)
	}

	if generateExport {
		location, err := studio.SaveDraft(ctx, outcome, content.StatusCompleted)
		if err != nil {
			return err
		}
		fmt.Println(render.Saved(location))
	}
	return nil
}

func printOutcome(outcome *app.Outcome, previewDir string) {
	fmt.Println(render.Result(outcome.Result))
	if outcome.Preview == nil {
		return
	}

	path, err := savePreview(previewDir, outcome.Preview)
	if err != nil {
		fmt.Println(render.Failure(fmt.Sprintf("Preview could not be saved: %v", err)))
		return
	}
	fmt.Println(render.Preview(path))
}

func savePreview(dir string, img *content.ImageResult) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", errors.New("empty image")
	}

	dir = filepath.Join(dir, "previews")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create preview directory: %w", err)
	}

	path := filepath.Join(dir, "preview-"+time.Now().Format("20060102_150405")+storage.ImageExt(img.MIMEType))
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return "", fmt.Errorf("write preview: %w", err)
	}
	return path, nil
}
