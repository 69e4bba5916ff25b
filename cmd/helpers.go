package cmd

import (
	"os"

	"github.com/iDenSorta/amneziawg-setup/internal/app"
	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/engine"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// getEngine returns the application container engine.
func getEngine() engine.Engine {
	return app.Default.Engine
}

// getFS returns the application filesystem.
func getFS() system.FileSystem {
	return app.Default.FS
}

// resolveDataDir picks the data directory for commands that only read
// instance state: flag, then environment, then built-in default.
func resolveDataDir(flagVal string, flagSet bool) string {
	if flagSet && flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(config.EnvDataDir); v != "" {
		return v
	}
	return config.DefaultDataDir
}

// loadInstance loads instance metadata or returns an InstanceNotFound error.
func loadInstance(dataDir, name string) (*config.InstanceMetadata, error) {
	metadata, err := config.LoadInstanceMetadata(getFS(), dataDir, name)
	if err != nil {
		return nil, errors.InstanceNotFound(name)
	}
	return metadata, nil
}

// instanceNameArg returns the positional instance name, defaulting when the
// argument is omitted.
func instanceNameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultInstanceName
}
