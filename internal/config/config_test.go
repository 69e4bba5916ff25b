package config

import (
	"strings"
	"testing"

	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

func TestValidateInstanceName(t *testing.T) {
	valid := []string{"awg-proxy", "proxy1", "a", "my_instance-2"}
	for _, name := range valid {
		if err := ValidateInstanceName(name); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", name, err)
		}
	}

	invalid := []string{"", "-proxy", "_proxy", "Proxy", "my proxy", "a/b",
		strings.Repeat("a", 64)}
	for _, name := range invalid {
		if err := ValidateInstanceName(name); err == nil {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestParseCredential(t *testing.T) {
	cred, err := ParseCredential("alice:s3cret")
	if err != nil {
		t.Fatalf("ParseCredential failed: %v", err)
	}
	if cred.Login != "alice" || cred.Password != "s3cret" {
		t.Errorf("Unexpected credential: %+v", cred)
	}

	invalid := []string{
		"alice",           // no separator
		"alice:",          // empty password
		":s3cret",         // empty login
		"alice:pa:ss",     // separator inside password
		"a:b:c:d",         // multiple separators
		"",                // empty entry
	}
	for _, entry := range invalid {
		if _, err := ParseCredential(entry); err == nil {
			t.Errorf("Expected %q to be rejected", entry)
		}
	}
}

func TestParseCredential_RedactsPassword(t *testing.T) {
	_, err := ParseCredential("alice:pa:ss")
	if err == nil {
		t.Fatal("Expected an error")
	}
	if strings.Contains(err.Error(), "pa:ss") {
		t.Errorf("Error message leaks the password: %v", err)
	}
	if !strings.Contains(err.Error(), "alice") {
		t.Errorf("Error message should name the login: %v", err)
	}
}

func TestParseCredentials(t *testing.T) {
	creds, err := ParseCredentials("alice:one, bob:two")
	if err != nil {
		t.Fatalf("ParseCredentials failed: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("Expected 2 credentials, got %d", len(creds))
	}
	if creds[0].Login != "alice" || creds[1].Login != "bob" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}

	for _, list := range []string{"", "  ", ",", "alice:one,bob"} {
		if _, err := ParseCredentials(list); err == nil {
			t.Errorf("Expected %q to be rejected", list)
		}
	}
}

func validRequest() *Request {
	return &Request{
		Name:        "awg-proxy",
		Host:        DefaultHost,
		DataDir:     DefaultDataDir,
		Image:       DefaultImage,
		Credentials: []Credential{{Login: "alice", Password: "one"}},
	}
}

func TestRequestValidate(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("Valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"bad name", func(r *Request) { r.Name = "Bad Name" }},
		{"privileged port", func(r *Request) { r.Port = 80 }},
		{"port too high", func(r *Request) { r.Port = 70000 }},
		{"negative bandwidth", func(r *Request) { r.BandwidthBps = -1 }},
		{"no credentials", func(r *Request) { r.Credentials = nil }},
		{"empty data dir", func(r *Request) { r.DataDir = "" }},
		{"empty image", func(r *Request) { r.Image = "" }},
		{"empty host", func(r *Request) { r.Host = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			if err := req.Validate(); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}

func TestRequestValidate_AutoPortAllowed(t *testing.T) {
	req := validRequest()
	req.Port = 0
	if err := req.Validate(); err != nil {
		t.Errorf("Port 0 (auto) should be valid: %v", err)
	}
}

func TestInstanceMetadataRoundTrip(t *testing.T) {
	fs := system.NewMockFS()

	meta := &InstanceMetadata{
		Name:       "awg-proxy",
		Host:       "203.0.113.7",
		Port:       20000,
		Image:      DefaultImage,
		ConfigPath: "/var/lib/awg-setup/awg-proxy/3proxy.cfg",
		Logins:     []string{"alice", "bob"},
		CreatedAt:  "2026-08-25T10:00:00Z",
	}

	if err := SaveInstanceMetadata(fs, "/var/lib/awg-setup", meta); err != nil {
		t.Fatalf("SaveInstanceMetadata failed: %v", err)
	}

	mode, ok := fs.GetMode("/var/lib/awg-setup/awg-proxy/instance.json")
	if !ok {
		t.Fatal("Metadata file not written")
	}
	if mode != 0600 {
		t.Errorf("Metadata should be 0600, got %o", mode)
	}

	loaded, err := LoadInstanceMetadata(fs, "/var/lib/awg-setup", "awg-proxy")
	if err != nil {
		t.Fatalf("LoadInstanceMetadata failed: %v", err)
	}
	if loaded.Port != 20000 || loaded.Host != "203.0.113.7" {
		t.Errorf("Unexpected metadata: %+v", loaded)
	}
	if len(loaded.Logins) != 2 {
		t.Errorf("Expected 2 logins, got %v", loaded.Logins)
	}
}

func TestLoadInstanceMetadata_Missing(t *testing.T) {
	fs := system.NewMockFS()
	if _, err := LoadInstanceMetadata(fs, "/var/lib/awg-setup", "nope"); err == nil {
		t.Error("Expected an error for a missing instance")
	}
}

func TestDeleteInstanceState(t *testing.T) {
	fs := system.NewMockFS()
	meta := &InstanceMetadata{Name: "awg-proxy", Port: 20000}
	if err := SaveInstanceMetadata(fs, "/var/lib/awg-setup", meta); err != nil {
		t.Fatalf("SaveInstanceMetadata failed: %v", err)
	}

	if err := DeleteInstanceState(fs, "/var/lib/awg-setup", "awg-proxy"); err != nil {
		t.Fatalf("DeleteInstanceState failed: %v", err)
	}

	if _, err := LoadInstanceMetadata(fs, "/var/lib/awg-setup", "awg-proxy"); err == nil {
		t.Error("Metadata should be gone after delete")
	}
}

func TestArtifactPath_CannotEscapeDataDir(t *testing.T) {
	path, err := ArtifactPath("/var/lib/awg-setup", "../../etc")
	if err != nil {
		// Rejection is fine too.
		return
	}
	if !strings.HasPrefix(path, "/var/lib/awg-setup") {
		t.Errorf("Artifact path escaped the data dir: %s", path)
	}
}
