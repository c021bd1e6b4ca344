package host

import (
	"errors"
	"strings"
	"testing"
)

func testParser() *Parser {
	return NewParser(WithLogin(StaticLogin("alice")))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Key
	}{
		{
			name:     "simple hostname",
			input:    "example.com",
			expected: Key{User: "alice", Hostname: "example.com", Port: 22},
		},
		{
			name:     "hostname with port",
			input:    "example.com:2222",
			expected: Key{User: "alice", Hostname: "example.com", Port: 2222},
		},
		{
			name:     "IP address with port",
			input:    "192.168.1.100:3306",
			expected: Key{User: "alice", Hostname: "192.168.1.100", Port: 3306},
		},
		{
			name:     "user and hostname",
			input:    "deploy@example.com",
			expected: Key{User: "deploy", Hostname: "example.com", Port: 22},
		},
		{
			name:     "user, hostname and port",
			input:    "deploy@example.com:2222",
			expected: Key{User: "deploy", Hostname: "example.com", Port: 2222},
		},
		{
			name:     "bracketed IPv6 with port",
			input:    "[fe80::1]:2222",
			expected: Key{User: "alice", Hostname: "fe80::1", Port: 2222},
		},
		{
			name:     "bare IPv6 splits on last colon",
			input:    "fe80::1:22",
			expected: Key{User: "alice", Hostname: "fe80::1", Port: 22},
		},
		{
			name:     "user and IPv4 address with port",
			input:    "deploy@10.0.0.5:2222",
			expected: Key{User: "deploy", Hostname: "10.0.0.5", Port: 2222},
		},
		{
			name:     "user and hostname ending in a digit",
			input:    "deploy@web1:22",
			expected: Key{User: "deploy", Hostname: "web1", Port: 22},
		},
		{
			name:     "user and IPv6 address with port",
			input:    "deploy@fe80::1:2222",
			expected: Key{User: "deploy", Hostname: "fe80::1", Port: 2222},
		},
		{
			name:     "user and bracketed IPv6 address with port",
			input:    "deploy@[fe80::1]:2222",
			expected: Key{User: "deploy", Hostname: "fe80::1", Port: 2222},
		},
		{
			name:     "numeric user segment",
			input:    "deploy@1001",
			expected: Key{User: "1001", Hostname: "1001", Port: 22},
		},
		{
			name:     "multiple @ symbols",
			input:    "user@jump@example.com",
			expected: Key{User: "user", Hostname: "example.com", Port: 22},
		},
	}

	p := testParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h.Key() != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, h.Key())
			}
		})
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"example.com", "Simple"},
		{"example.com:2222", "HostWithPort"},
		{"deploy@1001", "HostWithUsernameAndPort"},
		{"[fe80::1]:2222", "IPv6HostWithPort"},
		{"deploy@example.com", "HostWithUsername"},
		{"deploy@example.com:2222", "HostWithUsernameAndPort"},
		{"deploy@192.168.1.100:22", "HostWithUsernameAndPort"},
		{"deploy@cafe:22", "HostWithUsernameAndPort"},
		{"deploy@fe80::1:2222", "HostWithUsernameAndPort"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Select(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Name != tt.expected {
				t.Errorf("expected variant %s, got %s", tt.expected, v.Name)
			}
		})
	}
}

func TestSelectKeepsBothUsernameAndPortSlots(t *testing.T) {
	var slots []int
	for i, v := range Variants {
		if v.Name == "HostWithUsernameAndPort" {
			slots = append(slots, i)
		}
	}
	if len(slots) != 2 || slots[0] != 2 || slots[1] != 5 {
		t.Fatalf("expected HostWithUsernameAndPort at slots 2 and 5, got %v", slots)
	}
	if Variants[2].Suitable("deploy@example.com:2222") {
		t.Error("numeric-user slot should not claim user@host:port")
	}
	if Variants[5].Suitable("deploy@1001") {
		t.Error("user@host:port slot should not claim user@digits")
	}
}

func TestParseUnparsable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "pipe", input: "a|b"},
		{name: "empty string", input: ""},
		{name: "empty user", input: "@example.com"},
		{name: "empty port", input: "example.com:"},
		{name: "non numeric port with user", input: "deploy@example.com:ssh"},
		{name: "port out of range", input: "example.com:70000"},
		{name: "port out of range with user", input: "deploy@example.com:65536"},
	}

	p := testParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.input)
			if !errors.Is(err, ErrUnparsableHostString) {
				t.Fatalf("expected ErrUnparsableHostString, got %v", err)
			}
			if !strings.Contains(err.Error(), `"`+tt.input+`"`) {
				t.Errorf("expected error to name input %q, got %q", tt.input, err.Error())
			}
		})
	}
}

func TestParseLoginFailure(t *testing.T) {
	loginErr := errors.New("no passwd entry")
	p := NewParser(WithLogin(LoginFunc(func() (string, error) {
		return "", loginErr
	})))

	if _, err := p.Parse("example.com"); !errors.Is(err, loginErr) {
		t.Errorf("expected login error, got %v", err)
	}

	h, err := p.Parse("deploy@example.com")
	if err != nil {
		t.Fatalf("explicit user should not need a login: %v", err)
	}
	if h.User != "deploy" {
		t.Errorf("expected user deploy, got %s", h.User)
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"example.com",
		"example.com:2222",
		"deploy@example.com",
		"deploy@example.com:2222",
		"192.168.1.100:3306",
		"web1",
		"deploy@10.0.0.5:2222",
		"[fe80::1]:2222",
		"fe80::1:22",
	}

	p := testParser()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := p.Parse(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			second, err := p.Parse(first.String())
			if err != nil {
				t.Fatalf("reparsing %q: %v", first.String(), err)
			}
			if !first.Equal(second) {
				t.Errorf("expected %s, got %s", first, second)
			}
		})
	}
}

func TestFromOptions(t *testing.T) {
	p := testParser()

	h, err := p.FromOptions(map[string]any{
		"user":     "deploy",
		"hostname": "example.com",
		"port":     2222,
		"password": "secret",
		"keys":     []any{"~/.ssh/a", "~/.ssh/b", "~/.ssh/a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.String() != "deploy@example.com:2222" {
		t.Errorf("expected deploy@example.com:2222, got %s", h)
	}
	if h.Password != "secret" {
		t.Errorf("expected password secret, got %s", h.Password)
	}
	keys := h.Keys()
	if len(keys) != 3 || keys[0] != "~/.ssh/a" || keys[2] != "~/.ssh/a" {
		t.Errorf("expected keys in insertion order, got %v", keys)
	}
}

func TestFromOptionsDefaults(t *testing.T) {
	h, err := testParser().FromOptions(map[string]any{"hostname": "example.com", "key": "~/.ssh/id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Key() != (Key{User: "alice", Hostname: "example.com", Port: 22}) {
		t.Errorf("unexpected key %v", h.Key())
	}
	if keys := h.Keys(); len(keys) != 1 || keys[0] != "~/.ssh/id" {
		t.Errorf("expected single key, got %v", keys)
	}
}

func TestFromOptionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		opts     map[string]any
		expected error
		mention  string
	}{
		{
			name:     "unknown key",
			opts:     map[string]any{"nope": 1},
			expected: ErrUnknownHostProperty,
			mention:  "nope",
		},
		{
			name:     "unknown key among valid ones",
			opts:     map[string]any{"hostname": "example.com", "properties": map[string]any{}},
			expected: ErrUnknownHostProperty,
			mention:  "properties",
		},
		{
			name:     "non numeric port",
			opts:     map[string]any{"hostname": "example.com", "port": "ssh"},
			expected: ErrInvalidHostProperty,
			mention:  "port",
		},
		{
			name:     "port out of range",
			opts:     map[string]any{"hostname": "example.com", "port": 70000},
			expected: ErrInvalidHostProperty,
			mention:  "port",
		},
		{
			name:     "missing hostname",
			opts:     map[string]any{"user": "deploy"},
			expected: ErrMissingHostProperty,
			mention:  "hostname",
		},
	}

	p := testParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.FromOptions(tt.opts)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("expected error to mention %q, got %q", tt.mention, err.Error())
			}
		})
	}
}

func TestHostEquality(t *testing.T) {
	a := &Host{User: "a", Hostname: "h", Port: 22}
	b := &Host{User: "a", Hostname: "h", Port: 22, Password: "secret"}
	b.SetKey("~/.ssh/id")
	b.Properties()["role"] = "web"

	if !a.Equal(b) {
		t.Error("expected hosts differing only in password/keys/properties to be equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("expected equal hosts to hash equally")
	}

	seen := map[Key]bool{a.Key(): true}
	if !seen[b.Key()] {
		t.Error("expected equal hosts to share a map key")
	}

	for _, other := range []*Host{
		{User: "b", Hostname: "h", Port: 22},
		{User: "a", Hostname: "g", Port: 22},
		{User: "a", Hostname: "h", Port: 2222},
	} {
		if a.Equal(other) {
			t.Errorf("expected %s to differ from %s", a, other)
		}
	}
}

func TestProperties(t *testing.T) {
	h := &Host{User: "a", Hostname: "h", Port: 22}
	if h.HasProperties() {
		t.Error("expected no properties before first use")
	}

	h.Properties()["role"] = "web"
	if h.Properties()["role"] != "web" {
		t.Error("expected the same property bag on repeated access")
	}

	other := &Host{User: "a", Hostname: "h", Port: 22}
	if _, ok := other.Properties()["role"]; ok {
		t.Error("expected an independent property bag per host")
	}
}

func TestKeysAreCopied(t *testing.T) {
	keys := []string{"a", "b"}
	h := &Host{}
	h.SetKeys(keys)
	keys[0] = "changed"
	h.Keys()[1] = "changed"

	got := h.Keys()
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("expected keys to be owned by the host, got %v", got)
	}

	h.AddKey("c")
	if got := h.Keys(); len(got) != 3 || got[2] != "c" {
		t.Errorf("expected appended key, got %v", got)
	}
}

func TestNetSSHOptions(t *testing.T) {
	h := &Host{User: "deploy", Hostname: "example.com", Port: 2222, Password: "secret"}
	h.SetKeys([]string{"~/.ssh/a"})

	opts := h.NetSSHOptions()
	if opts.User != "deploy" || opts.Port != 2222 || opts.Password != "secret" {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.Keys) != 1 || opts.Keys[0] != "~/.ssh/a" {
		t.Errorf("unexpected keys %v", opts.Keys)
	}
}
