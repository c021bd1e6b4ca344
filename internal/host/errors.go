package host

import (
	"errors"
	"fmt"
)

var (
	ErrUnparsableHostString = errors.New("cannot parse host string")
	ErrUnknownHostProperty  = errors.New("unknown host property")
	ErrInvalidHostProperty  = errors.New("invalid host property")
	ErrMissingHostProperty  = errors.New("missing host property")
)

func unparsable(raw string) error {
	return fmt.Errorf("%w %q", ErrUnparsableHostString, raw)
}
