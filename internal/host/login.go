package host

import (
	"errors"
	"os"
	"os/user"
)

// LoginProvider reports the login name used when a host spec names no user.
type LoginProvider interface {
	CurrentLogin() (string, error)
}

// LoginFunc adapts a plain function to LoginProvider.
type LoginFunc func() (string, error)

func (f LoginFunc) CurrentLogin() (string, error) {
	return f()
}

// StaticLogin always reports the same name.
func StaticLogin(name string) LoginProvider {
	return LoginFunc(func() (string, error) {
		return name, nil
	})
}

type osLogin struct{}

// OSLogin reads the login name of the current process owner.
var OSLogin LoginProvider = osLogin{}

func (osLogin) CurrentLogin() (string, error) {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	for _, env := range []string{"USER", "LOGNAME"} {
		if name := os.Getenv(env); name != "" {
			return name, nil
		}
	}
	return "", errors.New("unable to determine current login name")
}
