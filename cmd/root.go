package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "awg-setup",
	Short: "Single-host authenticated proxy provisioner",
	Long: `awg-setup turns this host into an authenticated SOCKS5 proxy.

A single up invocation validates the inputs, picks a free TCP port,
renders the service configuration, launches the containerized service,
verifies it with a live probe, and prints a machine-parsable
connection report on stdout.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logging.UserError("%v", err)
		if diag := errors.GetDiagnostics(err); diag != "" {
			fmt.Fprintln(os.Stderr, diag)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
