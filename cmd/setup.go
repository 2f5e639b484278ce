package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

const geminiKeyURL = "https://aistudio.google.com/apikey"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	authErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for DiGi Creative",
	Long:  `Configure API keys and the export destination, and write them to .env.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("✨ DiGi Creative Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func createDirectories() error {
	dirs := []string{"exports", "exports/previews"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureGemini(env); err != nil {
		return err
	}

	if err := configureOptionalKeys(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureGemini(env map[string]string) error {
	var backend string
	if err := huh.NewSelect[string]().
		Title("How should DiGi Creative reach Gemini?").
		Options(
			huh.NewOption("Gemini API key", "gemini"),
			huh.NewOption("Vertex AI (Google Cloud project)", "vertex"),
		).
		Value(&backend).
		Run(); err != nil {
		return err
	}

	if backend == "vertex" {
		return configureVertex(env)
	}
	return configureGeminiKey(env)
}

func configureGeminiKey(env map[string]string) error {
	var open bool
	if err := huh.NewConfirm().
		Title("Open Google AI Studio to create a key?").
		Description(geminiKeyURL).
		Value(&open).
		Run(); err != nil {
		return err
	}
	if open {
		if err := browser.OpenURL(geminiKeyURL); err != nil {
			fmt.Println(infoStyle.Render("Visit: " + geminiKeyURL))
		}
	}

	var key string
	if err := huh.NewInput().
		Title("Gemini API Key").
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Validate(required("Gemini API Key")).
		Run(); err != nil {
		return err
	}

	env["GEMINI_API_KEY"] = strings.TrimSpace(key)
	return nil
}

func configureVertex(env map[string]string) error {
	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found - install from https://cloud.google.com/sdk/docs/install"))
	}

	project := getActiveProject()
	location := "us-central1"
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Google Cloud Project ID").
				Value(&project).
				Validate(required("Project ID")),
			huh.NewInput().
				Title("Location").
				Value(&location),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	project = strings.TrimSpace(project)
	env["GOOGLE_GENAI_USE_VERTEXAI"] = "true"
	env["GOOGLE_CLOUD_PROJECT"] = project
	if location = strings.TrimSpace(location); location != "" {
		env["GOOGLE_CLOUD_LOCATION"] = location
	}

	if commandExists("gcloud") {
		if err := enableGCPAPIs(project); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
		}
	}
	return nil
}

func configureOptionalKeys(env map[string]string) error {
	if err := configureGroq(env); err != nil {
		return err
	}

	if err := configureDeepSeek(env); err != nil {
		return err
	}

	if err := configureBucket(env); err != nil {
		return err
	}

	return nil
}

func configureGroq(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Groq?").
		Description("Alternative text backend (optional, images still use Gemini)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var apiKey string
	if err := huh.NewInput().
		Title("GROQ API Key").
		Description("https://console.groq.com/keys").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Run(); err != nil {
		return err
	}

	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		env["GROQ_API_KEY"] = apiKey
	}
	return nil
}

func configureDeepSeek(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup DeepSeek?").
		Description("Alternative text backend (optional, images still use Gemini)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var apiKey string
	if err := huh.NewInput().
		Title("DeepSeek API Key").
		Description("https://platform.deepseek.com/api_keys").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Run(); err != nil {
		return err
	}

	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		env["DEEPSEEK_API_KEY"] = apiKey
	}
	return nil
}

func configureBucket(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Export drafts to Cloud Storage?").
		Description("Drafts go to ./exports otherwise (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var bucket string
	if err := huh.NewInput().
		Title("Bucket name").
		Value(&bucket).
		Run(); err != nil {
		return err
	}

	if bucket = strings.TrimSpace(strings.TrimPrefix(bucket, "gs://")); bucket != "" {
		env["DIGI_EXPORT_BUCKET"] = bucket
	}
	return nil
}

func getActiveProject() string {
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"aiplatform.googleapis.com",
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

// envOrder is the order keys are written to .env.
var envOrder = []string{
	"GEMINI_API_KEY",
	"GOOGLE_GENAI_USE_VERTEXAI",
	"GOOGLE_CLOUD_PROJECT",
	"GOOGLE_CLOUD_LOCATION",
	"GROQ_API_KEY",
	"DEEPSEEK_API_KEY",
	"DIGI_EXPORT_BUCKET",
}

func writeEnvFile(env map[string]string) error {
	if err := os.WriteFile(".env", formatEnv(env), 0600); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func formatEnv(env map[string]string) []byte {
	var b bytes.Buffer
	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(&b, "%s=%s\n", key, val)
		}
	}
	return b.Bytes()
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Check credentials: digicreative auth status")
	fmt.Println("  2. Try it: digicreative generate -k story -p \"a lonely robot finds a friend\"")
	fmt.Println("  3. Or open the studio: digicreative studio")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
