package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the ONS dataset API is reachable",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if !client.Ping(context.Background()) {
		return fmt.Errorf("ONS dataset API at %s is not reachable", cfg.API.URL)
	}

	fmt.Printf("✓ ONS dataset API at %s is reachable\n", cfg.API.URL)
	return nil
}
