package host

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strconv"
)

// Host is a normalized login target. User, Hostname and Port form its
// identity; Password, keys and properties ride along.
type Host struct {
	User     string
	Hostname string
	Port     int
	Password string

	keys       []string
	properties Properties
}

// Properties is a per-host bag for caller metadata.
type Properties map[string]any

// Key identifies a host in maps and sets.
type Key struct {
	User     string
	Hostname string
	Port     int
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%s:%d", k.User, k.Hostname, k.Port)
}

// NetSSHOptions is the projection handed to SSH session code.
type NetSSHOptions struct {
	Keys     []string `json:"keys" yaml:"keys"`
	Port     int      `json:"port" yaml:"port"`
	User     string   `json:"user" yaml:"user"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty"`
}

// Username is an alias for User.
func (h *Host) Username() string {
	return h.User
}

func (h *Host) SetKey(key string) {
	h.keys = []string{key}
}

func (h *Host) SetKeys(keys []string) {
	h.keys = slices.Clone(keys)
}

// AddKey appends key, keeping any already set.
func (h *Host) AddKey(key string) {
	h.keys = append(h.keys, key)
}

// Keys returns a copy of the key list in insertion order.
func (h *Host) Keys() []string {
	return slices.Clone(h.keys)
}

// Properties returns the host's property bag, creating it on first use.
func (h *Host) Properties() Properties {
	if h.properties == nil {
		h.properties = Properties{}
	}
	return h.properties
}

// HasProperties reports whether the bag was created and holds anything.
func (h *Host) HasProperties() bool {
	return len(h.properties) > 0
}

func (h *Host) Key() Key {
	return Key{User: h.User, Hostname: h.Hostname, Port: h.Port}
}

func (h *Host) Equal(other *Host) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.Key() == other.Key()
}

// Hash combines user, hostname and port. Equal hosts hash equally.
func (h *Host) Hash() uint64 {
	f := fnv.New64a()
	f.Write([]byte(h.User))
	f.Write([]byte{0})
	f.Write([]byte(h.Hostname))
	f.Write([]byte{0})
	f.Write([]byte(strconv.Itoa(h.Port)))
	return f.Sum64()
}

func (h *Host) String() string {
	return h.Key().String()
}

func (h *Host) NetSSHOptions() NetSSHOptions {
	return NetSSHOptions{
		Keys:     h.Keys(),
		Port:     h.Port,
		User:     h.User,
		Password: h.Password,
	}
}
