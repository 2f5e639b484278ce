package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"

	"digicreative/pkg/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect credentials",
	Long:  `Inspect the credentials DiGi Creative resolved from .env, the environment and Secret Manager.`,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status for all services",
	Long:  `Verify which services are configured and authenticated.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	fmt.Println(infoStyle.Render("\nService Authentication Status:\n"))

	needsADC := false
	switch cfg.Gemini.Backend {
	case "vertex":
		needsADC = true
		if cfg.GCPProject != "" {
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ Gemini: Vertex AI project %s (%s)", cfg.GCPProject, cfg.Gemini.Location)))
		} else {
			fmt.Println(authErrorStyle.Render("✗ Gemini: vertex backend needs GOOGLE_CLOUD_PROJECT"))
		}
	default:
		if cfg.GeminiAPIKey != "" {
			fmt.Println(successStyle.Render("✓ Gemini: API key configured"))
		} else {
			fmt.Println(authErrorStyle.Render("✗ Gemini: missing GEMINI_API_KEY"))
			if cfg.GCPProject != "" {
				fmt.Println(infoStyle.Render(fmt.Sprintf("  Secret %q was not readable in project %s", cfg.Secrets.GeminiKey, cfg.GCPProject)))
			}
			fmt.Println(infoStyle.Render("  Run: digicreative setup"))
		}
	}

	switch {
	case cfg.GroqAPIKey != "":
		fmt.Println(successStyle.Render("✓ Groq: API key configured"))
	case cfg.Generation.Provider == "groq":
		fmt.Println(authErrorStyle.Render("✗ Groq: selected as provider but GROQ_API_KEY is missing"))
	default:
		fmt.Println(infoStyle.Render("○ Groq: not configured (optional)"))
	}

	switch {
	case cfg.DeepSeekAPIKey != "":
		fmt.Println(successStyle.Render("✓ DeepSeek: API key configured"))
	case cfg.Generation.Provider == "deepseek":
		fmt.Println(authErrorStyle.Render("✗ DeepSeek: selected as provider but DEEPSEEK_API_KEY is missing"))
	default:
		fmt.Println(infoStyle.Render("○ DeepSeek: not configured (optional)"))
	}

	if cfg.Export.Bucket != "" {
		needsADC = true
		fmt.Println(successStyle.Render("✓ Export: gs://" + cfg.Export.Bucket + "/" + cfg.Export.Prefix))
	} else {
		fmt.Println(infoStyle.Render("○ Export: local directory " + cfg.Export.Dir))
	}

	if needsADC {
		printADCStatus(ctx)
	}

	fmt.Println()
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			fmt.Println(warnStyle.Render("Generation is not available until the missing credential is set."))
			return nil
		}
		return err
	}
	fmt.Println(successStyle.Render("Ready to generate."))
	return nil
}

func printADCStatus(ctx context.Context) {
	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		fmt.Println(authErrorStyle.Render("✗ Google Cloud: no application default credentials"))
		fmt.Println(infoStyle.Render("  Run: gcloud auth application-default login"))
		return
	}

	project := creds.ProjectID
	if project == "" {
		project = "no default project"
	}
	fmt.Println(successStyle.Render("✓ Google Cloud: application default credentials found (" + project + ")"))
}
