package udp

import (
	"errors"
	"net"
	"testing"
	"time"
)

type fakeConn struct {
	writes   [][]byte
	writeErr error
	closed   bool
	closeErr error
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return c.closeErr
}

func fakeDial(fc *fakeConn, gotRaddr **net.UDPAddr) dialFunc {
	return func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		if gotRaddr != nil {
			*gotRaddr = raddr
		}
		return fc, nil
	}
}

func TestDial_UsesResolvedAddr(t *testing.T) {
	var raddr *net.UDPAddr
	m, err := dial("127.0.0.1:10110", net.ResolveUDPAddr, fakeDial(&fakeConn{}, &raddr))
	if err != nil {
		t.Fatalf("dial() error: %v", err)
	}
	defer m.Close()
	if raddr == nil || raddr.Port != 10110 || !raddr.IP.Equal(net.IPv4(127, 0, 0, 1)) {
		t.Fatalf("raddr=%v want 127.0.0.1:10110", raddr)
	}
	if m.Dest() != "127.0.0.1:10110" {
		t.Fatalf("Dest()=%q", m.Dest())
	}
}

func TestDial_ResolveFailure(t *testing.T) {
	resolveErr := errors.New("nope")
	_, err := dial("bad:addr", func(string, string) (*net.UDPAddr, error) { return nil, resolveErr }, fakeDial(&fakeConn{}, nil))
	if !errors.Is(err, resolveErr) {
		t.Fatalf("err=%v want %v", err, resolveErr)
	}
	if _, err := dial("", net.ResolveUDPAddr, fakeDial(&fakeConn{}, nil)); err == nil {
		t.Fatalf("expected error for empty dest")
	}
}

func TestMirror_SendLine(t *testing.T) {
	fc := &fakeConn{}
	m := &Mirror{dest: "x", conn: fc}

	if err := m.SendLine(""); err != nil {
		t.Fatalf("SendLine(empty) error: %v", err)
	}
	if err := m.SendLine("-22.817092,-47.092430"); err != nil {
		t.Fatalf("SendLine() error: %v", err)
	}
	if len(fc.writes) != 1 || string(fc.writes[0]) != "-22.817092,-47.092430\r\n" {
		t.Fatalf("writes=%q", fc.writes)
	}
	if m.Sent() != 1 {
		t.Fatalf("Sent()=%d", m.Sent())
	}
}

func TestMirror_SendLinePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	m := &Mirror{conn: &fakeConn{writeErr: wantErr}}
	if err := m.SendLine("a"); !errors.Is(err, wantErr) {
		t.Fatalf("err=%v want %v", err, wantErr)
	}
	if m.Sent() != 0 {
		t.Fatalf("Sent()=%d", m.Sent())
	}
}

func TestMirror_CloseThenSend(t *testing.T) {
	fc := &fakeConn{}
	m := &Mirror{conn: fc}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !fc.closed {
		t.Fatalf("conn not closed")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if err := m.SendLine("a"); !errors.Is(err, net.ErrClosed) {
		t.Fatalf("err=%v want net.ErrClosed", err)
	}
}

func TestMirror_CloseNilConn(t *testing.T) {
	if err := (&Mirror{}).Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestDial_Loopback(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}
	defer pc.Close()

	m, err := Dial(pc.LocalAddr().String())
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer m.Close()
	if err := m.SendLine("hello"); err != nil {
		t.Fatalf("SendLine() error: %v", err)
	}

	_ = pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if string(buf[:n]) != "hello\r\n" {
		t.Fatalf("got %q", buf[:n])
	}
}
