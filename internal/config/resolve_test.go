package config

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

type fakePrompter struct {
	creds []Credential
	err   error
	calls int
}

func (p *fakePrompter) Credentials() ([]Credential, error) {
	p.calls++
	return p.creds, p.err
}

func noEnv(string) string { return "" }

func TestResolve_FlagBeatsEnvAndFile(t *testing.T) {
	r := &Resolver{
		Flags: Flags{
			Users:    "flaguser:pw",
			UsersSet: true,
			Port:     25000,
			PortSet:  true,
		},
		File: &FileConfig{Users: "fileuser:pw", Port: 30000},
		Getenv: func(key string) string {
			if key == EnvUsers {
				return "envuser:pw"
			}
			if key == EnvPort {
				return "31000"
			}
			return ""
		},
	}

	req, err := r.Resolve("awg-proxy", 0, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if req.Credentials[0].Login != "flaguser" {
		t.Errorf("Flag should win, got login %q", req.Credentials[0].Login)
	}
	if req.Port != 25000 {
		t.Errorf("Flag port should win, got %d", req.Port)
	}
}

func TestResolve_EnvBeatsFile(t *testing.T) {
	r := &Resolver{
		File: &FileConfig{Users: "fileuser:pw", Host: "10.0.0.1"},
		Getenv: func(key string) string {
			if key == EnvUsers {
				return "envuser:pw"
			}
			return ""
		},
	}

	req, err := r.Resolve("awg-proxy", 0, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if req.Credentials[0].Login != "envuser" {
		t.Errorf("Env should beat file, got login %q", req.Credentials[0].Login)
	}
	if req.Host != "10.0.0.1" {
		t.Errorf("File host should apply when env is unset, got %q", req.Host)
	}
}

func TestResolve_DefaultsApply(t *testing.T) {
	r := &Resolver{
		Flags:  Flags{Users: "alice:pw", UsersSet: true},
		Getenv: noEnv,
	}

	req, err := r.Resolve("awg-proxy", DefaultSettleDelay, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if req.Host != DefaultHost {
		t.Errorf("Expected default host, got %q", req.Host)
	}
	if req.DataDir != DefaultDataDir {
		t.Errorf("Expected default data dir, got %q", req.DataDir)
	}
	if req.Image != DefaultImage {
		t.Errorf("Expected default image, got %q", req.Image)
	}
	if req.ProbeTarget != DefaultProbeTarget {
		t.Errorf("Expected default probe target, got %q", req.ProbeTarget)
	}
	if req.Port != 0 {
		t.Errorf("Expected auto port, got %d", req.Port)
	}
	if req.SettleDelay != DefaultSettleDelay {
		t.Errorf("Expected settle delay %v, got %v", DefaultSettleDelay, req.SettleDelay)
	}
}

func TestResolve_PromptWhenNoCredentials(t *testing.T) {
	p := &fakePrompter{creds: []Credential{{Login: "alice", Password: "pw"}}}
	r := &Resolver{Prompter: p, Getenv: noEnv}

	req, err := r.Resolve("awg-proxy", 0, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if p.calls != 1 {
		t.Errorf("Prompter should be called exactly once, got %d", p.calls)
	}
	if req.Credentials[0].Login != "alice" {
		t.Errorf("Unexpected credentials: %+v", req.Credentials)
	}
}

func TestResolve_PromptNotCalledWhenCredentialsGiven(t *testing.T) {
	p := &fakePrompter{creds: []Credential{{Login: "prompted", Password: "pw"}}}
	r := &Resolver{
		Flags:    Flags{Users: "alice:pw", UsersSet: true},
		Prompter: p,
		Getenv:   noEnv,
	}

	if _, err := r.Resolve("awg-proxy", 0, false); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.calls != 0 {
		t.Errorf("Prompter should not be called, got %d calls", p.calls)
	}
}

func TestResolve_FatalWithoutCredentialsNonInteractive(t *testing.T) {
	r := &Resolver{Getenv: noEnv}
	if _, err := r.Resolve("awg-proxy", 0, false); err == nil {
		t.Error("Expected an error when no credentials and no prompter")
	}
}

func TestResolve_BadEnvPort(t *testing.T) {
	r := &Resolver{
		Flags: Flags{Users: "alice:pw", UsersSet: true},
		Getenv: func(key string) string {
			if key == EnvPort {
				return "not-a-number"
			}
			return ""
		},
	}

	_, err := r.Resolve("awg-proxy", 0, false)
	if err == nil {
		t.Fatal("Expected an error for a non-numeric port")
	}
	if !strings.Contains(err.Error(), EnvPort) {
		t.Errorf("Error should name the variable, got: %v", err)
	}
}

func TestResolve_EngineArgsSplit(t *testing.T) {
	r := &Resolver{
		Flags: Flags{
			Users:         "alice:pw",
			UsersSet:      true,
			EngineArgs:    `--dns 1.1.1.1 --label "a b"`,
			EngineArgsSet: true,
		},
		Getenv: noEnv,
	}

	req, err := r.Resolve("awg-proxy", 0, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"--dns", "1.1.1.1", "--label", "a b"}
	if fmt.Sprint(req.EngineArgs) != fmt.Sprint(want) {
		t.Errorf("Engine args = %v, want %v", req.EngineArgs, want)
	}
}

func TestLoadFileConfig(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/etc/awg-setup.toml", []byte(`
users = "alice:one,bob:two"
port = 20050
bandwidth = 1000000
image = "3proxy/3proxy:0.9"
`), 0644)

	fc, err := LoadFileConfig(fs, "/etc/awg-setup.toml")
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}

	if fc.Port != 20050 {
		t.Errorf("Expected port 20050, got %d", fc.Port)
	}
	if fc.Bandwidth != 1000000 {
		t.Errorf("Expected bandwidth 1000000, got %d", fc.Bandwidth)
	}
	if fc.Users != "alice:one,bob:two" {
		t.Errorf("Unexpected users: %q", fc.Users)
	}
}

func TestLoadFileConfig_BadTOML(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/etc/awg-setup.toml", []byte(`users = [unclosed`), 0644)

	if _, err := LoadFileConfig(fs, "/etc/awg-setup.toml"); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestResolve_SettleAndSkipProbePassthrough(t *testing.T) {
	r := &Resolver{
		Flags:  Flags{Users: "alice:pw", UsersSet: true},
		Getenv: noEnv,
	}

	req, err := r.Resolve("awg-proxy", 10*time.Second, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if req.SettleDelay != 10*time.Second || !req.SkipProbe {
		t.Errorf("Settle/skip not carried: %+v", req)
	}
}
