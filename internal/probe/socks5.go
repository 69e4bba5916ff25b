package probe

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
)

// DefaultTimeout bounds the entire probe (TCP connect + handshake + CONNECT).
const DefaultTimeout = 5 * time.Second

// Options controls a single probe execution.
type Options struct {
	// Server is the SOCKS5 endpoint to probe, in "host:port" form.
	Server string

	// Target is the destination used in the CONNECT test, "host:port".
	Target string

	// Credential authenticates against the service (user/pass, method 0x02).
	Credential config.Credential

	// Timeout bounds the whole probe. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Probe acts as a SOCKS5 client of the freshly started service: TCP connect,
// greeting with user/pass auth, then a CONNECT to the target. Any failure
// returns an error describing which step broke; the caller decides whether
// that is fatal.
func Probe(ctx context.Context, opts Options) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	deadline := time.Now().Add(timeout)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", opts.Server)
	if err != nil {
		return fmt.Errorf("tcp connect to %s failed: %w", opts.Server, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(deadline)

	if err := greet(conn, opts.Credential); err != nil {
		return fmt.Errorf("socks handshake failed: %w", err)
	}

	if err := connect(conn, opts.Target); err != nil {
		return fmt.Errorf("socks connect to %s failed: %w", opts.Target, err)
	}

	logging.Debug("probe succeeded", "server", opts.Server, "target", opts.Target)
	return nil
}

// greet negotiates the user/pass method and runs RFC 1929 authentication.
func greet(conn net.Conn, cred config.Credential) error {
	// Offer both no-auth and user/pass; the service is configured for
	// strong auth so it should select 0x02.
	if _, err := conn.Write([]byte{0x05, 0x02, 0x00, 0x02}); err != nil {
		return fmt.Errorf("write greeting: %w", err)
	}

	var reply [2]byte
	if _, err := io.ReadFull(conn, reply[:]); err != nil {
		return fmt.Errorf("read greeting reply: %w", err)
	}
	if reply[0] != 0x05 {
		return fmt.Errorf("unexpected version 0x%02x", reply[0])
	}

	switch reply[1] {
	case 0x00:
		// Server demands no auth. Nothing further to do, but note it:
		// a strong-auth service should not be doing this.
		logging.Warn("service accepted connection without authentication")
		return nil
	case 0x02:
		return authenticate(conn, cred)
	case 0xff:
		return fmt.Errorf("no acceptable auth method")
	default:
		return fmt.Errorf("unsupported auth method 0x%02x", reply[1])
	}
}

func authenticate(conn net.Conn, cred config.Credential) error {
	if len(cred.Login) > 255 || len(cred.Password) > 255 {
		return fmt.Errorf("credential too long for socks5 auth")
	}

	req := make([]byte, 0, 3+len(cred.Login)+len(cred.Password))
	req = append(req, 0x01, byte(len(cred.Login)))
	req = append(req, cred.Login...)
	req = append(req, byte(len(cred.Password)))
	req = append(req, cred.Password...)

	if _, err := conn.Write(req); err != nil {
		return fmt.Errorf("write auth: %w", err)
	}

	var reply [2]byte
	if _, err := io.ReadFull(conn, reply[:]); err != nil {
		return fmt.Errorf("read auth reply: %w", err)
	}
	if reply[1] != 0x00 {
		return fmt.Errorf("authentication rejected (status 0x%02x)", reply[1])
	}

	return nil
}

// connect issues a CONNECT request for the target and validates the reply.
func connect(conn net.Conn, target string) error {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid target port %q", portStr)
	}

	req := []byte{0x05, 0x01, 0x00}
	req = appendAddress(req, host)
	req = binary.BigEndian.AppendUint16(req, uint16(port))

	if _, err := conn.Write(req); err != nil {
		return fmt.Errorf("write connect: %w", err)
	}

	var hdr [4]byte
	if _, err := io.ReadFull(conn, hdr[:]); err != nil {
		return fmt.Errorf("read connect reply: %w", err)
	}
	if hdr[0] != 0x05 {
		return fmt.Errorf("unexpected reply version 0x%02x", hdr[0])
	}
	if hdr[1] != 0x00 {
		return fmt.Errorf("%s", repToString(hdr[1]))
	}

	// Consume the bound address so the reply is fully drained.
	return discardBindAddr(conn, hdr[3])
}

// appendAddress encodes host as an IPv4, IPv6, or domain SOCKS5 address.
func appendAddress(req []byte, host string) []byte {
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			req = append(req, 0x01)
			return append(req, ip4...)
		}
		req = append(req, 0x04)
		return append(req, ip.To16()...)
	}
	req = append(req, 0x03, byte(len(host)))
	return append(req, host...)
}

func discardBindAddr(conn net.Conn, atyp byte) error {
	var n int
	switch atyp {
	case 0x01:
		n = 4
	case 0x04:
		n = 16
	case 0x03:
		var l [1]byte
		if _, err := io.ReadFull(conn, l[:]); err != nil {
			return fmt.Errorf("read bind addr length: %w", err)
		}
		n = int(l[0])
	default:
		return fmt.Errorf("unknown bind address type 0x%02x", atyp)
	}

	buf := make([]byte, n+2) // address + port
	if _, err := io.ReadFull(conn, buf); err != nil {
		return fmt.Errorf("read bind addr: %w", err)
	}
	return nil
}

func repToString(rep byte) string {
	switch rep {
	case 0x01:
		return "general server failure"
	case 0x02:
		return "connection not allowed by ruleset"
	case 0x03:
		return "network unreachable"
	case 0x04:
		return "host unreachable"
	case 0x05:
		return "connection refused"
	case 0x06:
		return "TTL expired"
	case 0x07:
		return "command not supported"
	case 0x08:
		return "address type not supported"
	default:
		return fmt.Sprintf("unknown reply code 0x%02x", rep)
	}
}
