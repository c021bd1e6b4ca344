package ssh

import (
	"net"
	"strconv"

	"hostkit/internal/host"
)

// Endpoint is the TCP address an SSH client dials for a host.
type Endpoint struct {
	Host string
	Port int
	User string
}

func NewEndpoint(h *host.Host) *Endpoint {
	endpoint := &Endpoint{
		Host: h.Hostname,
		Port: h.Port,
		User: h.User,
	}
	if endpoint.Port == 0 {
		endpoint.Port = host.DefaultPort
	}
	return endpoint
}

// NewEndpointFromString parses s as a host spec.
func NewEndpointFromString(s string) (*Endpoint, error) {
	h, err := host.Parse(s)
	if err != nil {
		return nil, err
	}
	return NewEndpoint(h), nil
}

func (endpoint *Endpoint) String() string {
	return net.JoinHostPort(endpoint.Host, strconv.Itoa(endpoint.Port))
}
