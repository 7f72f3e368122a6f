package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcinsik/knowledge-assistant/internal/api"
	"github.com/marcinsik/knowledge-assistant/internal/config"
)

// HealthCmd returns the `knowassist health` command.
func HealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the knowledge server is reachable",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := api.NewClient(cfg.APIURL, 5*time.Second)

			status, err := client.Health()
			if err != nil {
				return fmt.Errorf("server at %s is not reachable: %w", cfg.APIURL, err)
			}

			fmt.Printf("%s: %s", cfg.APIURL, status.Status)
			if status.Message != "" {
				fmt.Printf(" (%s)", status.Message)
			}
			fmt.Println()
			return nil
		},
	}
}
