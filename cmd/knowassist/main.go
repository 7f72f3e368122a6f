package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/cmd"
	"github.com/marcinsik/knowledge-assistant/internal/config"
	"github.com/marcinsik/knowledge-assistant/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "knowassist",
		Short: "Knowledge Assistant - personal knowledge base client",
		Long:  "Knowledge Assistant CLI: browse, search and manage text notes and PDF documents stored on a knowledge server.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.HealthCmd())
	root.AddCommand(cmd.ItemsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ui.ApplyTheme(cfg.Theme)
	client := api.NewClient(cfg.APIURL)
	app := ui.NewApp(client, cfg)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
