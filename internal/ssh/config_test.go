package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hostkit/internal/host"

	"golang.org/x/crypto/ssh"
)

const testSSHConfig = `
Host web
  HostName web.internal.example.com
  User deploy
  Port 2222
  IdentityFile ~/.ssh/web
  IdentityFile /etc/keys/shared

Host db
  User postgres
`

func TestResolveConfig(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	h := &host.Host{User: "alice", Hostname: "web", Port: 22}
	h.SetKey("/existing")
	if err := ResolveConfig(h, strings.NewReader(testSSHConfig)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.String() != "deploy@web.internal.example.com:2222" {
		t.Errorf("expected deploy@web.internal.example.com:2222, got %s", h)
	}
	keys := h.Keys()
	expected := []string{"/existing", filepath.Join(home, ".ssh", "web"), "/etc/keys/shared"}
	if len(keys) != len(expected) {
		t.Fatalf("expected keys %v, got %v", expected, keys)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("expected key %d to be %s, got %s", i, expected[i], keys[i])
		}
	}
}

func TestResolveConfigPartialBlock(t *testing.T) {
	h := &host.Host{User: "alice", Hostname: "db", Port: 5022}
	if err := ResolveConfig(h, strings.NewReader(testSSHConfig)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.String() != "postgres@db:5022" {
		t.Errorf("expected postgres@db:5022, got %s", h)
	}
	if len(h.Keys()) != 0 {
		t.Errorf("expected no keys, got %v", h.Keys())
	}
}

func TestResolveConfigUnknownHost(t *testing.T) {
	h := &host.Host{User: "alice", Hostname: "other", Port: 22}
	if err := ResolveConfig(h, strings.NewReader(testSSHConfig)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.String() != "alice@other:22" {
		t.Errorf("expected host to be untouched, got %s", h)
	}
}

func TestResolveUserConfigFileMissing(t *testing.T) {
	h := &host.Host{User: "alice", Hostname: "web", Port: 22}
	if err := ResolveUserConfigFile(h, filepath.Join(t.TempDir(), "config")); err != nil {
		t.Fatalf("expected missing config to be ignored, got %v", err)
	}
	if h.String() != "alice@web:22" {
		t.Errorf("expected host to be untouched, got %s", h)
	}
}

func writeTestKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "test")
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	return path
}

func TestClientConfig(t *testing.T) {
	keyPath := writeTestKey(t)

	tests := []struct {
		name          string
		opts          host.NetSSHOptions
		expectedAuths int
		expectError   bool
	}{
		{
			name:          "key and password",
			opts:          host.NetSSHOptions{User: "deploy", Port: 22, Keys: []string{keyPath}, Password: "secret"},
			expectedAuths: 2,
		},
		{
			name:          "unreadable key is skipped",
			opts:          host.NetSSHOptions{User: "deploy", Port: 22, Keys: []string{keyPath, "/nonexistent/key"}},
			expectedAuths: 1,
		},
		{
			name:          "password only",
			opts:          host.NetSSHOptions{User: "deploy", Port: 22, Keys: []string{"/nonexistent/key"}, Password: "secret"},
			expectedAuths: 1,
		},
		{
			name:        "no user",
			opts:        host.NetSSHOptions{Port: 22},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ClientConfig(tt.opts)
			if tt.expectError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.User != tt.opts.User {
				t.Errorf("expected user %s, got %s", tt.opts.User, cfg.User)
			}
			if len(cfg.Auth) != tt.expectedAuths {
				t.Errorf("expected %d auth methods, got %d", tt.expectedAuths, len(cfg.Auth))
			}
		})
	}
}
