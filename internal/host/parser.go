package host

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Parser builds hosts from spec strings or option maps. The zero value is
// not usable; use NewParser.
type Parser struct {
	login LoginProvider
}

type ParserOption func(*Parser)

// WithLogin replaces the login provider used for specs that carry no user.
func WithLogin(p LoginProvider) ParserOption {
	return func(parser *Parser) {
		parser.login = p
	}
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{login: OSLogin}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse builds a host from a spec string using the OS login name as the
// default user.
func Parse(raw string) (*Host, error) {
	return defaultParser.Parse(raw)
}

// FromOptions builds a host from explicit fields using the OS login name as
// the default user.
func FromOptions(opts map[string]any) (*Host, error) {
	return defaultParser.FromOptions(opts)
}

func (p *Parser) Parse(raw string) (*Host, error) {
	v, err := Select(raw)
	if err != nil {
		return nil, err
	}

	login, loginErr := p.login.CurrentLogin()
	user, hostname, port := v.Extract(raw, login)
	zap.L().Debug("selected host variant",
		zap.String("raw", raw),
		zap.String("variant", v.Name),
		zap.String("user", user),
		zap.String("hostname", hostname),
		zap.Int("port", port))

	if user == "" && loginErr != nil {
		return nil, fmt.Errorf("host %q: %w", raw, loginErr)
	}
	if user == "" || hostname == "" || port <= 0 || port > maxPort {
		return nil, unparsable(raw)
	}

	return &Host{User: user, Hostname: hostname, Port: port}, nil
}

func (p *Parser) FromOptions(opts map[string]any) (*Host, error) {
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)

	h := &Host{}
	for _, name := range names {
		set, ok := setters[name]
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrUnknownHostProperty, name)
		}
		if err := set(h, opts[name]); err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrInvalidHostProperty, name, err)
		}
	}

	if h.Hostname == "" {
		return nil, fmt.Errorf("%w hostname", ErrMissingHostProperty)
	}
	if h.User == "" {
		login, err := p.login.CurrentLogin()
		if err != nil {
			return nil, fmt.Errorf("host %s: %w", h.Hostname, err)
		}
		h.User = login
	}
	if h.Port == 0 {
		h.Port = DefaultPort
	}
	return h, nil
}

const maxPort = 65535

var setters = map[string]func(*Host, any) error{
	"user": func(h *Host, v any) (err error) {
		h.User, err = asString(v)
		return err
	},
	"hostname": func(h *Host, v any) (err error) {
		h.Hostname, err = asString(v)
		return err
	},
	"password": func(h *Host, v any) (err error) {
		h.Password, err = asString(v)
		return err
	},
	"port": func(h *Host, v any) (err error) {
		h.Port, err = asPort(v)
		return err
	},
	"key": func(h *Host, v any) error {
		key, err := asString(v)
		if err != nil {
			return err
		}
		h.SetKey(key)
		return nil
	},
	"keys": func(h *Host, v any) error {
		keys, err := asStrings(v)
		if err != nil {
			return err
		}
		h.SetKeys(keys)
		return nil
	},
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("expected string, got %T", v)
}

func asPort(v any) (int, error) {
	var port int
	switch n := v.(type) {
	case int:
		port = n
	case int64:
		port = int(n)
	case uint16:
		port = int(n)
	case uint32:
		port = int(n)
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("port %v is not an integer", n)
		}
		port = int(n)
	case string:
		if !digitsRe.MatchString(n) {
			return 0, fmt.Errorf("port %q is not an integer", n)
		}
		port = atoi(n)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
	if port <= 0 || port > maxPort {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

func asStrings(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case string:
		return []string{list}, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, err := asString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", v)
}
