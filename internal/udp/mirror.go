// Package udp mirrors replayed lines to a UDP listener, one datagram per line.
package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

type udpConn interface {
	Write(p []byte) (int, error)
	Close() error
}

type (
	resolveFunc func(network, address string) (*net.UDPAddr, error)
	dialFunc    func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)
)

// Mirror sends lines to a fixed destination.
type Mirror struct {
	dest string

	mu     sync.Mutex
	conn   udpConn
	sent   int
	closed bool
}

// Dial resolves dest ("host:port") and connects a UDP socket to it.
func Dial(dest string) (*Mirror, error) {
	return dial(dest, net.ResolveUDPAddr, func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return net.DialUDP(network, laddr, raddr)
	})
}

func dial(dest string, resolve resolveFunc, dialUDP dialFunc) (*Mirror, error) {
	if dest == "" {
		return nil, errors.New("udp: destination is empty")
	}
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dest, err)
	}
	conn, err := dialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", dest, err)
	}
	return &Mirror{dest: dest, conn: conn}, nil
}

func (m *Mirror) Dest() string { return m.dest }

// SendLine writes line followed by CRLF as a single datagram. Empty lines
// are dropped.
func (m *Mirror) SendLine(line string) error {
	if line == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.conn == nil {
		return net.ErrClosed
	}
	if _, err := m.conn.Write([]byte(line + "\r\n")); err != nil {
		return err
	}
	m.sent++
	return nil
}

// Sent reports the number of datagrams written.
func (m *Mirror) Sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.conn == nil {
		m.closed = true
		return nil
	}
	m.closed = true
	return m.conn.Close()
}
