package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
)

var downCmd = &cobra.Command{
	Use:   "down [name]",
	Short: "Stop and remove a proxy instance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDown,
}

var (
	downDataDir   string
	downKeepState bool
)

func init() {
	downCmd.Flags().StringVar(&downDataDir, "data-dir", "", "Directory for config artifacts and instance state")
	downCmd.Flags().BoolVar(&downKeepState, "keep-state", false, "Keep the config artifact and instance metadata")
	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, args []string) error {
	name := instanceNameArg(args)
	ctx := context.Background()
	dataDir := resolveDataDir(downDataDir, cmd.Flags().Changed("data-dir"))

	if err := config.ValidateInstanceName(name); err != nil {
		return errors.Validation("%s", err.Error())
	}

	logInfo("Removing instance %s...", name)
	if err := getEngine().Remove(ctx, name); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to remove instance", err)
	}

	if !downKeepState {
		if err := config.DeleteInstanceState(getFS(), dataDir, name); err != nil {
			logging.Debug("failed to delete instance state", "name", name, "error", err)
		}
	}

	logSuccess("Instance %s removed", name)
	return nil
}
