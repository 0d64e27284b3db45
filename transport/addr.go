package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Network names accepted in addresses.
const (
	NetworkUnix  = "unix"
	NetworkTCP   = "tcp"
	NetworkVsock = "vsock"
)

var (
	// ErrInvalidAddr is wrapped by every address parsing error.
	ErrInvalidAddr = errors.New("transport: invalid address")
	// ErrVsockUnsupported is returned for vsock addresses on platforms
	// without AF_VSOCK.
	ErrVsockUnsupported = errors.New("transport: vsock is not supported on this platform")
)

// Addr is a parsed transport address.
type Addr struct {
	Network string
	// Address is the socket path for unix and host:port for tcp.
	Address string
	// CID and Port are set for vsock.
	CID  uint32
	Port uint32
}

func (a Addr) String() string {
	if a.Network == NetworkVsock {
		return fmt.Sprintf("vsock://%d:%d", a.CID, a.Port)
	}
	return a.Network + "://" + a.Address
}

// ParseAddr parses unix://path, tcp://host:port or vsock://cid:port. A value
// without a scheme is taken as a unix socket path.
func ParseAddr(raw string) (Addr, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Addr{}, fmt.Errorf("%w: empty", ErrInvalidAddr)
	}
	scheme, rest, found := strings.Cut(s, "://")
	if !found {
		return Addr{Network: NetworkUnix, Address: s}, nil
	}
	if rest == "" {
		return Addr{}, fmt.Errorf("%w: %q has no address", ErrInvalidAddr, raw)
	}
	switch strings.ToLower(scheme) {
	case NetworkUnix:
		return Addr{Network: NetworkUnix, Address: rest}, nil
	case NetworkTCP:
		if _, _, err := net.SplitHostPort(rest); err != nil {
			return Addr{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddr, raw, err)
		}
		return Addr{Network: NetworkTCP, Address: rest}, nil
	case NetworkVsock:
		cidText, portText, ok := strings.Cut(rest, ":")
		if !ok {
			return Addr{}, fmt.Errorf("%w: %q must be vsock://cid:port", ErrInvalidAddr, raw)
		}
		cid, err := strconv.ParseUint(cidText, 10, 32)
		if err != nil {
			return Addr{}, fmt.Errorf("%w: %q: context id: %v", ErrInvalidAddr, raw, err)
		}
		port, err := strconv.ParseUint(portText, 10, 32)
		if err != nil {
			return Addr{}, fmt.Errorf("%w: %q: port: %v", ErrInvalidAddr, raw, err)
		}
		return Addr{Network: NetworkVsock, CID: uint32(cid), Port: uint32(port)}, nil
	default:
		return Addr{}, fmt.Errorf("%w: unknown scheme %q", ErrInvalidAddr, scheme)
	}
}

// Dial connects to raw.
func Dial(ctx context.Context, raw string) (net.Conn, error) {
	addr, err := ParseAddr(raw)
	if err != nil {
		return nil, err
	}
	if addr.Network == NetworkVsock {
		return dialVsock(ctx, addr.CID, addr.Port)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, addr.Network, addr.Address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

// Listen opens a listener on raw. For vsock the context id selects the local
// interface to bind.
func Listen(raw string) (net.Listener, error) {
	addr, err := ParseAddr(raw)
	if err != nil {
		return nil, err
	}
	if addr.Network == NetworkVsock {
		return listenVsock(addr.CID, addr.Port)
	}
	ln, err := net.Listen(addr.Network, addr.Address)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}
