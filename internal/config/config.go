package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// instanceNameRegex validates instance names.
// Names must start with a lowercase letter or digit, followed by lowercase
// letters, digits, underscores, or hyphens. Maximum length is 63 characters
// (common container name limit).
var instanceNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

const (
	// DefaultInstanceName is used when no name argument is given to up.
	DefaultInstanceName = "awg-proxy"

	// DefaultDataDir holds config artifacts and instance metadata.
	DefaultDataDir = "/var/lib/awg-setup"

	// DefaultImage is the service container image.
	DefaultImage = "3proxy/3proxy:latest"

	// DefaultHost is the bind/advertised host when none is configured.
	DefaultHost = "0.0.0.0"

	// DefaultProbeTarget is the destination for the functional probe.
	DefaultProbeTarget = "example.com:80"

	// DefaultSettleDelay is how long to wait before the post-launch
	// status check.
	DefaultSettleDelay = 3 * time.Second

	// Auto-allocation scan range, inclusive.
	PortRangeFrom = 20000
	PortRangeTo   = 20100

	// Explicitly requested ports must be unprivileged.
	MinExplicitPort = 1024
	MaxPort         = 65535

	// ConfigFileName is the rendered config artifact filename.
	ConfigFileName = "3proxy.cfg"

	metadataFileName = "instance.json"
	lockFileName     = ".lock"
)

// ValidateInstanceName checks if an instance name is valid.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}

	if !instanceNameRegex.MatchString(name) {
		return fmt.Errorf("invalid instance name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

// Credential is a single login:password pair for the service.
type Credential struct {
	Login    string
	Password string
}

// ParseCredential parses a single "login:password" entry. Both parts must be
// non-empty and must not themselves contain the separator.
func ParseCredential(entry string) (Credential, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 2 {
		return Credential{}, fmt.Errorf("credential %q must be exactly login:password", redactEntry(entry))
	}
	if parts[0] == "" || parts[1] == "" {
		return Credential{}, fmt.Errorf("credential %q has an empty login or password", redactEntry(entry))
	}
	return Credential{Login: parts[0], Password: parts[1]}, nil
}

// ParseCredentials parses a comma-separated "login:password,login:password"
// list. An empty list is rejected.
func ParseCredentials(list string) ([]Credential, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, fmt.Errorf("credential list is empty")
	}

	var creds []Credential
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		cred, err := ParseCredential(entry)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("credential list is empty")
	}

	return creds, nil
}

// redactEntry keeps error messages from echoing passwords back verbatim.
func redactEntry(entry string) string {
	if idx := strings.IndexByte(entry, ':'); idx >= 0 {
		return entry[:idx] + ":***"
	}
	return entry
}

// Request is the fully resolved provisioning request. It is built once at
// startup from layered sources (flag > env > config file > prompt) and is
// the only input the pipeline stages see.
type Request struct {
	Name         string
	Port         int // 0 means auto-allocate from the scan range
	Host         string
	BandwidthBps int64 // per-direction ceiling in bits/sec, 0 means unlimited
	DataDir      string
	Image        string
	Credentials  []Credential
	ProbeTarget  string
	EngineArgs   []string
	SettleDelay  time.Duration
	SkipProbe    bool
}

// Validate checks all Request invariants. It must pass before any file I/O
// or external call happens.
func (r *Request) Validate() error {
	if err := ValidateInstanceName(r.Name); err != nil {
		return err
	}

	if r.Port != 0 && (r.Port < MinExplicitPort || r.Port > MaxPort) {
		return fmt.Errorf("port %d out of range [%d,%d]", r.Port, MinExplicitPort, MaxPort)
	}

	if r.BandwidthBps < 0 {
		return fmt.Errorf("bandwidth must be a non-negative integer, got %d", r.BandwidthBps)
	}

	if len(r.Credentials) == 0 {
		return fmt.Errorf("at least one login:password credential is required")
	}
	for _, c := range r.Credentials {
		if c.Login == "" || c.Password == "" {
			return fmt.Errorf("credential for %q has an empty field", c.Login)
		}
		if strings.ContainsRune(c.Login, ':') || strings.ContainsRune(c.Password, ':') {
			return fmt.Errorf("credential for %q contains the separator character ':'", c.Login)
		}
	}

	if r.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if r.Image == "" {
		return fmt.Errorf("container image is required")
	}
	if r.Host == "" {
		return fmt.Errorf("host is required")
	}

	return nil
}

// InstanceDir returns the per-instance state directory under dataDir.
// The instance name is joined safely so it can never escape dataDir.
func InstanceDir(dataDir, name string) (string, error) {
	return securejoin.SecureJoin(dataDir, name)
}

// ArtifactPath returns the config artifact path for an instance.
func ArtifactPath(dataDir, name string) (string, error) {
	dir, err := InstanceDir(dataDir, name)
	if err != nil {
		return "", err
	}
	return securejoin.SecureJoin(dir, ConfigFileName)
}

// InstanceMetadata records a provisioned instance so that down, status and
// logs can find it later.
type InstanceMetadata struct {
	Name       string   `json:"name"`
	Host       string   `json:"host"`
	Port       int      `json:"port"`
	Image      string   `json:"image"`
	ConfigPath string   `json:"configPath"`
	Logins     []string `json:"logins"`
	CreatedAt  string   `json:"createdAt"`
}

// SaveInstanceMetadata writes metadata to <dataDir>/<name>/instance.json.
func SaveInstanceMetadata(fsys system.FileSystem, dataDir string, meta *InstanceMetadata) error {
	dir, err := InstanceDir(dataDir, meta.Name)
	if err != nil {
		return fmt.Errorf("invalid instance name: %w", err)
	}
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create instance directory: %w", err)
	}

	path, err := securejoin.SecureJoin(dir, metadataFileName)
	if err != nil {
		return fmt.Errorf("invalid metadata path: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := fsys.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// LoadInstanceMetadata loads metadata for an instance.
func LoadInstanceMetadata(fsys system.FileSystem, dataDir, name string) (*InstanceMetadata, error) {
	dir, err := InstanceDir(dataDir, name)
	if err != nil {
		return nil, fmt.Errorf("invalid instance name: %w", err)
	}
	path, err := securejoin.SecureJoin(dir, metadataFileName)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata path: %w", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("instance not found: %s", name)
	}

	var meta InstanceMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse instance metadata: %w", err)
	}

	return &meta, nil
}

// DeleteInstanceState removes the per-instance state directory.
func DeleteInstanceState(fsys system.FileSystem, dataDir, name string) error {
	dir, err := InstanceDir(dataDir, name)
	if err != nil {
		return fmt.Errorf("invalid instance name: %w", err)
	}
	return fsys.RemoveAll(dir)
}
