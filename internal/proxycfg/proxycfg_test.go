package proxycfg

import (
	"strings"
	"testing"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

func twoUserConfig() *Config {
	return &Config{
		MaxConnections: DefaultMaxConnections,
		NSCacheSize:    DefaultNSCacheSize,
		Timeouts:       DefaultTimeouts,
		Credentials: []config.Credential{
			{Login: "alice", Password: "one"},
			{Login: "bob", Password: "two"},
		},
		Port: 20000,
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := twoUserConfig()
	if cfg.Render() != cfg.Render() {
		t.Error("Render should be byte-identical across calls")
	}
}

func TestRender_Directives(t *testing.T) {
	out := twoUserConfig().Render()

	wantLines := []string{
		"maxconn 300",
		"nscache 65536",
		"timeouts " + DefaultTimeouts,
		"users alice:CL:one bob:CL:two",
		"auth strong",
		"allow alice",
		"allow bob",
		"socks -p20000",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("Missing directive %q in:\n%s", line, out)
		}
	}

	if strings.Contains(out, "bandlim") {
		t.Errorf("No bandwidth limit configured, but found bandlim in:\n%s", out)
	}
}

func TestRender_DirectiveOrder(t *testing.T) {
	out := twoUserConfig().Render()

	users := strings.Index(out, "users ")
	auth := strings.Index(out, "auth strong")
	allow := strings.Index(out, "allow alice")
	socks := strings.Index(out, "socks -p")

	if !(users < auth && auth < allow && allow < socks) {
		t.Errorf("Directives out of order:\n%s", out)
	}
}

func TestRender_BandwidthSymmetric(t *testing.T) {
	cfg := twoUserConfig()
	cfg.BandwidthBps = 5000000
	out := cfg.Render()

	for _, login := range []string{"alice", "bob"} {
		if !strings.Contains(out, "bandlimin 5000000 "+login+"\n") {
			t.Errorf("Missing bandlimin for %s in:\n%s", login, out)
		}
		if !strings.Contains(out, "bandlimout 5000000 "+login+"\n") {
			t.Errorf("Missing bandlimout for %s in:\n%s", login, out)
		}
	}
}

func TestFromRequest(t *testing.T) {
	req := &config.Request{
		Port:         20042,
		BandwidthBps: 1000,
		Credentials:  []config.Credential{{Login: "alice", Password: "pw"}},
	}

	cfg := FromRequest(req)
	if cfg.Port != 20042 || cfg.BandwidthBps != 1000 {
		t.Errorf("Request values not carried: %+v", cfg)
	}
	if cfg.MaxConnections != DefaultMaxConnections {
		t.Errorf("Expected default maxconn, got %d", cfg.MaxConnections)
	}
}

func TestWrite_OwnerOnlyPermissions(t *testing.T) {
	fs := system.NewMockFS()
	path := "/var/lib/awg-setup/awg-proxy/3proxy.cfg"

	if err := Write(fs, path, twoUserConfig()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	mode, ok := fs.GetMode(path)
	if !ok {
		t.Fatal("Config artifact not written")
	}
	if mode != 0600 {
		t.Errorf("Config must be 0600, got %o", mode)
	}

	data, _ := fs.GetFile(path)
	if !strings.Contains(string(data), "socks -p20000") {
		t.Errorf("Rendered config missing listener directive:\n%s", data)
	}
}

func TestDump_MasksPasswords(t *testing.T) {
	fs := system.NewMockFS()
	path := "/var/lib/awg-setup/awg-proxy/3proxy.cfg"
	if err := Write(fs, path, twoUserConfig()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	dump := Dump(fs, path)
	if strings.Contains(dump, "one") || strings.Contains(dump, "two") {
		t.Errorf("Dump leaks passwords:\n%s", dump)
	}
	if !strings.Contains(dump, "alice:CL:***") {
		t.Errorf("Dump should keep masked logins visible:\n%s", dump)
	}
}

func TestDump_UnreadableArtifact(t *testing.T) {
	fs := system.NewMockFS()
	dump := Dump(fs, "/nonexistent")
	if !strings.Contains(dump, "unreadable") {
		t.Errorf("Expected an unreadable marker, got: %s", dump)
	}
}
