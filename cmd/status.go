package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iDenSorta/amneziawg-setup/internal/health"
)

var statusCmd = &cobra.Command{
	Use:   "status [name]",
	Short: "Show detailed status of a proxy instance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

var statusDataDir string

func init() {
	statusCmd.Flags().StringVar(&statusDataDir, "data-dir", "", "Directory for config artifacts and instance state")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	name := instanceNameArg(args)
	dataDir := resolveDataDir(statusDataDir, cmd.Flags().Changed("data-dir"))

	metadata, err := loadInstance(dataDir, name)
	if err != nil {
		return err
	}

	result := health.Check(context.Background(), getEngine(), name)

	fmt.Printf("Instance: %s\n", metadata.Name)
	fmt.Printf("Host: %s\n", metadata.Host)
	fmt.Printf("Port: %d\n", metadata.Port)
	fmt.Printf("Image: %s\n", metadata.Image)
	fmt.Printf("Users: %s\n", strings.Join(metadata.Logins, ", "))
	fmt.Printf("Config: %s\n", metadata.ConfigPath)
	fmt.Printf("Created: %s\n", metadata.CreatedAt)
	fmt.Println()

	fmt.Println("Health Checks:")
	fmt.Printf("  Engine status: %s\n", result.Status)
	fmt.Printf("  Running: %s\n", boolStatus(result.Running))
	if result.Running {
		fmt.Printf("  Uptime: %s\n", result.Uptime)
	}

	return nil
}

func boolStatus(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
