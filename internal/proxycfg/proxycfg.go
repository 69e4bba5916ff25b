package proxycfg

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// Resource limit defaults for the rendered service config.
const (
	DefaultMaxConnections = 300
	DefaultNSCacheSize    = 65536

	// DefaultTimeouts is the 3proxy timeout schedule: byte short, byte long,
	// string short, string long, connect short, connect long, dns, chain.
	DefaultTimeouts = "1 5 30 60 180 1800 15 60"

	// userHashType marks passwords as cleartext in the users directive.
	userHashType = "CL"

	// ContainerConfigPath is where the service reads the config inside the
	// instance; the artifact is mounted read-only at this path.
	ContainerConfigPath = "/etc/3proxy/3proxy.cfg"
)

// Config is the typed model of the service configuration. Rendering it is
// deterministic: fixed inputs produce a byte-identical artifact.
type Config struct {
	MaxConnections int
	NSCacheSize    int
	Timeouts       string
	Credentials    []config.Credential
	BandwidthBps   int64 // applied symmetrically in and out; 0 disables
	Port           int
}

// FromRequest builds a Config from a validated provisioning request.
func FromRequest(req *config.Request) *Config {
	return &Config{
		MaxConnections: DefaultMaxConnections,
		NSCacheSize:    DefaultNSCacheSize,
		Timeouts:       DefaultTimeouts,
		Credentials:    req.Credentials,
		BandwidthBps:   req.BandwidthBps,
		Port:           req.Port,
	}
}

// Render serializes the config as line-oriented 3proxy directives.
func (c *Config) Render() string {
	var b strings.Builder

	b.WriteString("# awg-setup service configuration\n")
	fmt.Fprintf(&b, "maxconn %d\n", c.MaxConnections)
	fmt.Fprintf(&b, "nscache %d\n", c.NSCacheSize)
	fmt.Fprintf(&b, "timeouts %s\n", c.Timeouts)

	// Space-separated login:CL:password list on a single directive.
	users := make([]string, 0, len(c.Credentials))
	for _, cred := range c.Credentials {
		users = append(users, fmt.Sprintf("%s:%s:%s", cred.Login, userHashType, cred.Password))
	}
	fmt.Fprintf(&b, "users %s\n", strings.Join(users, " "))

	b.WriteString("auth strong\n")

	for _, cred := range c.Credentials {
		fmt.Fprintf(&b, "allow %s\n", cred.Login)
	}

	if c.BandwidthBps > 0 {
		for _, cred := range c.Credentials {
			fmt.Fprintf(&b, "bandlimin %d %s\n", c.BandwidthBps, cred.Login)
			fmt.Fprintf(&b, "bandlimout %d %s\n", c.BandwidthBps, cred.Login)
		}
	}

	fmt.Fprintf(&b, "socks -p%d\n", c.Port)

	return b.String()
}

// Write renders the config and writes it to path with owner-only
// permissions. The write is atomic: the file appears fully written or not
// at all, and is never readable at a mode wider than 0600.
func Write(fsys system.FileSystem, path string, cfg *Config) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	rendered := cfg.Render()
	if err := fsys.WriteFileAtomic(path, []byte(rendered), 0600); err != nil {
		return fmt.Errorf("failed to write config artifact: %w", err)
	}

	logging.Debug("config artifact written", "path", path, "users", len(cfg.Credentials), "port", cfg.Port)
	return nil
}

// Dump reads back the artifact for diagnostics, masking password fields so
// launch-failure output never leaks secrets.
func Dump(fsys system.FileSystem, path string) string {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("(config artifact unreadable: %v)", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "users ") {
			continue
		}
		fields := strings.Fields(line)
		for j := 1; j < len(fields); j++ {
			if idx := strings.Index(fields[j], ":"); idx > 0 {
				fields[j] = fields[j][:idx] + ":" + userHashType + ":***"
			}
		}
		lines[i] = strings.Join(fields, " ")
	}
	return strings.Join(lines, "\n")
}
