package main

import (
	"os"

	"github.com/iDenSorta/amneziawg-setup/cmd"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
