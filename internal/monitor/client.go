package monitor

import (
	"bufio"
	"fmt"
	"net"

	"github.com/robolabs/widowlink/internal/monitor/auth"
)

// Dial connects to a monitor server, authenticates with the shared key
// and returns a connection whose reads yield decrypted 6-byte frames.
func Dial(addr, key string) (net.Conn, error) {
	derived, err := auth.DeriveKey(key)
	if err != nil {
		return nil, err
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial monitor: %w", err)
	}

	r := bufio.NewReader(conn)
	clientNonce, serverNonce, err := auth.Handshake(r, conn, derived, true)
	if err != nil {
		conn.Close()
		return nil, err
	}

	sessionKey := auth.DeriveSessionKey(derived, serverNonce, clientNonce)
	sec, err := auth.WrapConn(conn, sessionKey)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return sec, nil
}
