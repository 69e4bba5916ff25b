package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// Environment variable names recognized by the resolver.
const (
	EnvUsers       = "AWG_USERS"
	EnvPort        = "AWG_PORT"
	EnvHost        = "AWG_HOST"
	EnvBandwidth   = "AWG_BANDWIDTH"
	EnvDataDir     = "AWG_DATA_DIR"
	EnvImage       = "AWG_IMAGE"
	EnvConfigFile  = "AWG_CONFIG"
	EnvProbeTarget = "AWG_PROBE_TARGET"
	EnvEngineArgs  = "AWG_ENGINE_ARGS"
)

// FileConfig is the optional TOML defaults file, the lowest non-interactive
// layer of the resolution order.
type FileConfig struct {
	Users       string `toml:"users"`
	Port        int    `toml:"port"`
	Host        string `toml:"host"`
	Bandwidth   int64  `toml:"bandwidth"`
	DataDir     string `toml:"data_dir"`
	Image       string `toml:"image"`
	ProbeTarget string `toml:"probe_target"`
	EngineArgs  string `toml:"engine_args"`
}

// LoadFileConfig reads and parses a TOML defaults file.
func LoadFileConfig(fsys system.FileSystem, path string) (*FileConfig, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &fc, nil
}

// Prompter supplies values interactively. It is nil in non-interactive mode,
// in which case a missing required value is fatal.
type Prompter interface {
	// Credentials asks the user for one or more login:password pairs.
	// Password input must not be echoed.
	Credentials() ([]Credential, error)
}

// Flags carries the command-line values together with whether each flag was
// explicitly set, so unset flags fall through to lower layers.
type Flags struct {
	Users          string
	UsersSet       bool
	Port           int
	PortSet        bool
	Host           string
	HostSet        bool
	Bandwidth      int64
	BandwidthSet   bool
	DataDir        string
	DataDirSet     bool
	Image          string
	ImageSet       bool
	ProbeTarget    string
	ProbeTargetSet bool
	EngineArgs     string
	EngineArgsSet  bool
}

// Resolver builds a validated Request from layered sources with precedence
// flag > environment > config file > prompt > built-in default.
type Resolver struct {
	Flags    Flags
	File     *FileConfig // nil when no config file was given
	Prompter Prompter    // nil in non-interactive mode

	// Getenv defaults to os.Getenv; swapped in tests.
	Getenv func(string) string
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.Getenv(key)
}

func (r *Resolver) stringValue(flagVal string, flagSet bool, envKey, fileVal, def string) string {
	if flagSet && flagVal != "" {
		return flagVal
	}
	if v := r.getenv(envKey); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}

// Resolve produces the final Request for the given instance name,
// including settle delay and probe toggles from the command line.
func (r *Resolver) Resolve(name string, settle time.Duration, skipProbe bool) (*Request, error) {
	req := &Request{
		Name:        name,
		SettleDelay: settle,
		SkipProbe:   skipProbe,
	}

	var file FileConfig
	if r.File != nil {
		file = *r.File
	}

	// Users is the only value worth an interactive round trip; everything
	// else has a usable default.
	users := r.stringValue(r.Flags.Users, r.Flags.UsersSet, EnvUsers, file.Users, "")
	if users != "" {
		creds, err := ParseCredentials(users)
		if err != nil {
			return nil, err
		}
		req.Credentials = creds
	} else if r.Prompter != nil {
		logging.Debug("no credentials configured, prompting")
		creds, err := r.Prompter.Credentials()
		if err != nil {
			return nil, fmt.Errorf("credential prompt failed: %w", err)
		}
		req.Credentials = creds
	} else {
		return nil, fmt.Errorf("no credentials given: set --users, %s, or a config file entry", EnvUsers)
	}

	port, err := r.resolvePort(file.Port)
	if err != nil {
		return nil, err
	}
	req.Port = port

	bandwidth, err := r.resolveBandwidth(file.Bandwidth)
	if err != nil {
		return nil, err
	}
	req.BandwidthBps = bandwidth

	req.Host = r.stringValue(r.Flags.Host, r.Flags.HostSet, EnvHost, file.Host, DefaultHost)
	req.DataDir = r.stringValue(r.Flags.DataDir, r.Flags.DataDirSet, EnvDataDir, file.DataDir, DefaultDataDir)
	req.Image = r.stringValue(r.Flags.Image, r.Flags.ImageSet, EnvImage, file.Image, DefaultImage)
	req.ProbeTarget = r.stringValue(r.Flags.ProbeTarget, r.Flags.ProbeTargetSet, EnvProbeTarget, file.ProbeTarget, DefaultProbeTarget)

	engineArgs := r.stringValue(r.Flags.EngineArgs, r.Flags.EngineArgsSet, EnvEngineArgs, file.EngineArgs, "")
	if engineArgs != "" {
		args, err := shellquote.Split(engineArgs)
		if err != nil {
			return nil, fmt.Errorf("invalid engine args %q: %w", engineArgs, err)
		}
		req.EngineArgs = args
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *Resolver) resolvePort(filePort int) (int, error) {
	if r.Flags.PortSet {
		return r.Flags.Port, nil
	}
	if v := r.getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 {
			return 0, fmt.Errorf("%s must be a non-negative integer, got %q", EnvPort, v)
		}
		return port, nil
	}
	return filePort, nil
}

func (r *Resolver) resolveBandwidth(fileBandwidth int64) (int64, error) {
	if r.Flags.BandwidthSet {
		return r.Flags.Bandwidth, nil
	}
	if v := r.getenv(EnvBandwidth); v != "" {
		bw, err := strconv.ParseInt(v, 10, 64)
		if err != nil || bw < 0 {
			return 0, fmt.Errorf("%s must be a non-negative integer, got %q", EnvBandwidth, v)
		}
		return bw, nil
	}
	return fileBandwidth, nil
}
