package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iDenSorta/amneziawg-setup/internal/errors"
)

var logsCmd = &cobra.Command{
	Use:   "logs [name]",
	Short: "View service instance logs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogs,
}

var (
	logsDataDir string
	logsLines   int
)

func init() {
	logsCmd.Flags().StringVar(&logsDataDir, "data-dir", "", "Directory for config artifacts and instance state")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	name := instanceNameArg(args)
	dataDir := resolveDataDir(logsDataDir, cmd.Flags().Changed("data-dir"))

	if _, err := loadInstance(dataDir, name); err != nil {
		return err
	}

	out, err := getEngine().Logs(context.Background(), name, logsLines)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to read instance logs", err)
	}

	fmt.Print(out)
	return nil
}
