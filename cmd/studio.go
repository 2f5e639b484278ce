package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"digicreative/internal/app"
	"digicreative/internal/content"
	"digicreative/internal/render"
)

const (
	actionSave      = "save"
	actionExport    = "export"
	actionStartOver = "start-over"
	actionClose     = "close"
	moduleQuit      = "quit"

	promptPlaceholder = "e.g. A space adventure about a lonely robot finding a friend..."
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Open the interactive creation studio",
	Long: `Pick a module, describe what you want, and review the result. Results can be
saved as drafts or exported, and nothing is kept once a module is closed.`,
	RunE: runStudio,
}

func init() {
	rootCmd.AddCommand(studioCmd)
}

func runStudio(cmd *cobra.Command, args []string) error {
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

	for {
		kind, err := selectModule()
		if errors.Is(err, huh.ErrUserAborted) || kind == moduleQuit {
			return nil
		}
		if err != nil {
			return err
		}

		session := app.NewSession(studio, content.Kind(kind))
		if err := runModule(ctx, session, cfg.Export.Dir); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			return err
		}
	}
}

func selectModule() (string, error) {
	options := make([]huh.Option[string], 0, len(content.Catalog())+1)
	for _, m := range content.Catalog() {
		options = append(options, huh.NewOption(fmt.Sprintf("%s %s", m.Icon, m.Title), m.Kind.String()))
	}
	options = append(options, huh.NewOption("Quit", moduleQuit))

	var kind string
	err := huh.NewSelect[string]().
		Title("Create Something New").
		Options(options...).
		Value(&kind).
		Run()
	return kind, err
}

// runModule drives one open module until the user closes it.
func runModule(ctx context.Context, session *app.Session, previewDir string) error {
	module, _ := content.Lookup(session.Kind())

	for {
		if session.Outcome() == nil {
			if err := generateInto(ctx, session, module); err != nil {
				return err
			}
			if session.Outcome() == nil {
				continue
			}
			printOutcome(session.Outcome(), previewDir)
		}

		action, err := selectAction()
		if err != nil {
			return err
		}

		switch action {
		case actionSave, actionExport:
			status := content.StatusDraft
			if action == actionExport {
				status = content.StatusCompleted
			}
			location, err := session.Save(ctx, status)
			if err != nil {
				fmt.Println(render.Failure(fmt.Sprintf("Could not save: %v", err)))
				continue
			}
			fmt.Println(render.Saved(location))
		case actionStartOver:
			session.Reset()
		case actionClose:
			session.Reset()
			return nil
		}
	}
}

func generateInto(ctx context.Context, session *app.Session, module content.Module) error {
	var prompt string
	if err := huh.NewText().
		Title(module.Title).
		Description("What would you like to create?").
		Placeholder(promptPlaceholder).
		Value(&prompt).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return content.ErrEmptyPrompt
			}
			return nil
		}).
		Run(); err != nil {
		return err
	}

	var runErr error
	if err := spinner.New().
		Title("AI Thinking...").
		Context(ctx).
		Action(func() { _, runErr = session.Run(ctx, prompt) }).
		Run(); err != nil {
		return err
	}

	if runErr != nil {
		fmt.Println(render.Failure(app.FailureNotice))
	}
	return ctx.Err()
}

func selectAction() (string, error) {
	var action string
	err := huh.NewSelect[string]().
		Options(
			huh.NewOption("Save Draft", actionSave),
			huh.NewOption("Export All", actionExport),
			huh.NewOption("Start Over", actionStartOver),
			huh.NewOption("Close", actionClose),
		).
		Value(&action).
		Run()
	return action, err
}
