package config

import (
	"fmt"
	"os"
	"path/filepath"

	"hostkit/internal/host"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// HostEntry is one inventory item as written by Save. Load accepts either a
// host spec string or a mapping of host fields plus an optional properties
// mapping for each item.
type HostEntry struct {
	Host *host.Host
}

type Config struct {
	Hosts []HostEntry `yaml:"hosts"`
}

type hostFields struct {
	User       string         `yaml:"user,omitempty"`
	Hostname   string         `yaml:"hostname"`
	Port       int            `yaml:"port,omitempty"`
	Password   string         `yaml:"password,omitempty"`
	Keys       []string       `yaml:"keys,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

type ConfigLoader struct {
	path   string
	parser *host.Parser
}

func NewConfigLoader(path string) *ConfigLoader {
	return &ConfigLoader{
		path:   path,
		parser: host.NewParser(),
	}
}

// WithParser swaps the parser used to build hosts, e.g. to fix the login.
func (c *ConfigLoader) WithParser(p *host.Parser) *ConfigLoader {
	c.parser = p
	return c
}

func (c *ConfigLoader) Path() string {
	return c.path
}

func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", "hostkit", "hosts.yaml"), nil
}

// FindConfigFile looks for an inventory in the following order:
// 1. If configPath is provided and file exists, use it
// 2. Look for .hostkit.yaml in current directory
// 3. Fall back to ~/.local/state/hostkit/hosts.yaml
func FindConfigFile(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	currentDir, err := os.Getwd()
	if err == nil {
		localConfig := filepath.Join(currentDir, ".hostkit.yaml")
		if _, err := os.Stat(localConfig); err == nil {
			return localConfig, nil
		}
	}

	return GetDefaultConfigPath()
}

// Load reads the inventory. Entries equal to an earlier one (same user,
// hostname and port) are dropped.
func (c *ConfigLoader) Load() ([]*host.Host, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return []*host.Host{}, err
	}
	return c.Decode(data)
}

func (c *ConfigLoader) Decode(data []byte) ([]*host.Host, error) {
	var doc struct {
		Hosts []yaml.Node `yaml:"hosts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	set := host.NewSet()
	for i, node := range doc.Hosts {
		h, err := c.decodeHost(&node)
		if err != nil {
			return nil, fmt.Errorf("hosts[%d] (line %d): %w", i, node.Line, err)
		}
		if !set.Add(h) {
			zap.L().Debug("dropping duplicate host", zap.Int("index", i), zap.Stringer("host", h))
		}
	}
	return set.Hosts(), nil
}

func (c *ConfigLoader) decodeHost(node *yaml.Node) (*host.Host, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var spec string
		if err := node.Decode(&spec); err != nil {
			return nil, err
		}
		return c.parser.Parse(spec)

	case yaml.MappingNode:
		var opts map[string]any
		if err := node.Decode(&opts); err != nil {
			return nil, err
		}
		props, hasProps := opts["properties"]
		delete(opts, "properties")

		h, err := c.parser.FromOptions(opts)
		if err != nil {
			return nil, err
		}
		if hasProps {
			bag, ok := props.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w properties: expected mapping, got %T", host.ErrInvalidHostProperty, props)
			}
			for k, v := range bag {
				h.Properties()[k] = v
			}
		}
		return h, nil
	}
	return nil, fmt.Errorf("expected host string or mapping, got %s", kindName(node.Kind))
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "node"
}

// MarshalYAML writes bare hosts as their canonical string and everything
// else as a mapping. A host whose canonical string would parse back
// differently is written as a mapping too.
func (e HostEntry) MarshalYAML() (interface{}, error) {
	h := e.Host
	if h.Password == "" && len(h.Keys()) == 0 && !h.HasProperties() && roundTrips(h) {
		return h.String(), nil
	}
	fields := hostFields{
		User:     h.User,
		Hostname: h.Hostname,
		Port:     h.Port,
		Password: h.Password,
		Keys:     h.Keys(),
	}
	if h.HasProperties() {
		fields.Properties = h.Properties()
	}
	return fields, nil
}

func roundTrips(h *host.Host) bool {
	p := host.NewParser(host.WithLogin(host.StaticLogin(h.User)))
	parsed, err := p.Parse(h.String())
	return err == nil && parsed.Equal(h)
}

func (c *ConfigLoader) Save(hosts []*host.Host) error {
	config := Config{
		Hosts: make([]HostEntry, len(hosts)),
	}
	for i, h := range hosts {
		config.Hosts[i] = HostEntry{Host: h}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Passwords may be stored, keep the file private.
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
