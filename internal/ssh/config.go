package ssh

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hostkit/internal/host"

	"github.com/sio2boss/ssh_config"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

func loadPrivateKey(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		zap.L().Debug("failed to find key", zap.String("path", keyPath))
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		zap.L().Debug("failed to parse private key", zap.String("path", keyPath), zap.Error(err))
		return nil, err
	}

	return ssh.PublicKeys(signer), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// UserConfigPath is the OpenSSH client config of the current user.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// ResolveUserConfigFile applies the OpenSSH client config at path to h. A
// missing file leaves h untouched.
func ResolveUserConfigFile(h *host.Host, path string) error {
	configFile, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug("no SSH config", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open SSH config: %w", err)
	}
	defer configFile.Close()
	return ResolveConfig(h, configFile)
}

// ResolveUserConfig applies ~/.ssh/config to h.
func ResolveUserConfig(h *host.Host) error {
	path, err := UserConfigPath()
	if err != nil {
		return err
	}
	return ResolveUserConfigFile(h, path)
}

// ResolveConfig applies the Host block matching h.Hostname to h. HostName,
// Port and User replace the parsed values only when the config sets them;
// IdentityFile entries are appended to the host's keys.
func ResolveConfig(h *host.Host, r io.Reader) error {
	sshConfig, err := ssh_config.Decode(r)
	if err != nil {
		return fmt.Errorf("failed to parse SSH config: %w", err)
	}

	lookupHost := h.Hostname
	log := zap.L().With(zap.String("host", lookupHost))

	if port, _ := sshConfig.Get(lookupHost, "Port"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid Port %q for %s in SSH config: %w", port, lookupHost, err)
		}
		log.Debug("overriding port from SSH config", zap.Int("from", h.Port), zap.Int("to", portNum))
		h.Port = portNum
	}

	if user, _ := sshConfig.Get(lookupHost, "User"); user != "" {
		log.Debug("overriding user from SSH config", zap.String("from", h.User), zap.String("to", user))
		h.User = user
	}

	if identityFiles, _ := sshConfig.GetAll(lookupHost, "IdentityFile"); len(identityFiles) > 0 {
		log.Debug("adding identity files from SSH config", zap.Int("count", len(identityFiles)))
		for _, identityFile := range identityFiles {
			h.AddKey(expandHome(identityFile))
		}
	}

	if hostname, _ := sshConfig.Get(lookupHost, "HostName"); hostname != "" {
		log.Debug("overriding hostname from SSH config", zap.String("to", hostname))
		h.Hostname = hostname
	}

	return nil
}

// DefaultKeyPaths are tried when a host carries no keys. ECDSA first, then
// RSA.
func DefaultKeyPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".ssh", "id_ecdsa"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
}

// ClientConfig turns the options of a host into an x/crypto/ssh client
// config. Unreadable key files are skipped. It does not dial.
func ClientConfig(opts host.NetSSHOptions) (*ssh.ClientConfig, error) {
	if opts.User == "" {
		return nil, errors.New("ssh options carry no user")
	}

	keyPaths := opts.Keys
	if len(keyPaths) == 0 {
		keyPaths = DefaultKeyPaths()
	}

	var auths []ssh.AuthMethod
	for _, keyPath := range keyPaths {
		if auth, err := loadPrivateKey(expandHome(keyPath)); err == nil {
			zap.L().Debug("loaded identity file", zap.String("path", keyPath))
			auths = append(auths, auth)
		}
	}
	if opts.Password != "" {
		auths = append(auths, ssh.Password(opts.Password))
	}

	return &ssh.ClientConfig{
		User:            opts.User,
		Auth:            auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against known_hosts
		Timeout:         10 * time.Second,
	}, nil
}
