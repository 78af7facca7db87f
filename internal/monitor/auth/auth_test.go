package auth_test

import (
	"bufio"
	"bytes"
	"net"
	"testing"

	"github.com/robolabs/widowlink/internal/monitor/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	key, err := auth.GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key, auth.AutoGenKeyLength)

	other, err := auth.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestDeriveKey(t *testing.T) {
	key, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)
	assert.Len(t, key, 32)

	same, err := auth.DeriveKey("hunter2")
	require.NoError(t, err)
	assert.Equal(t, key, same)

	_, err = auth.DeriveKey("")
	assert.Error(t, err)
}

func TestDeriveSessionKeyMixesNonces(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	sn := bytes.Repeat([]byte{0x01}, auth.NonceSize)
	cn := bytes.Repeat([]byte{0x02}, auth.NonceSize)

	k1 := auth.DeriveSessionKey(key, sn, cn)
	k2 := auth.DeriveSessionKey(key, cn, sn)
	assert.Len(t, k1, 32)
	assert.NotEqual(t, k1, k2)
}

func TestHandshakeRoundTrip(t *testing.T) {
	key, err := auth.DeriveKey("shared-secret")
	require.NoError(t, err)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	type result struct {
		clientNonce, serverNonce []byte
		err                      error
	}
	srvCh := make(chan result, 1)
	go func() {
		cn, sn, err := auth.Handshake(bufio.NewReader(server), server, key, false)
		srvCh <- result{cn, sn, err}
	}()

	cn, sn, err := auth.Handshake(bufio.NewReader(client), client, key, true)
	require.NoError(t, err)

	srv := <-srvCh
	require.NoError(t, srv.err)
	assert.Equal(t, cn, srv.clientNonce)
	assert.Equal(t, sn, srv.serverNonce)

	// Both ends must land on the same session key.
	assert.Equal(t,
		auth.DeriveSessionKey(key, sn, cn),
		auth.DeriveSessionKey(key, srv.serverNonce, srv.clientNonce))
}

func TestHandshakeRejectsWrongKey(t *testing.T) {
	serverKey, err := auth.DeriveKey("right")
	require.NoError(t, err)
	clientKey, err := auth.DeriveKey("wrong")
	require.NoError(t, err)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	srvCh := make(chan error, 1)
	go func() {
		_, _, err := auth.Handshake(bufio.NewReader(server), server, serverKey, false)
		srvCh <- err
		server.Close()
	}()

	_, _, clientErr := auth.Handshake(bufio.NewReader(client), client, clientKey, true)
	assert.Error(t, clientErr)
	assert.ErrorIs(t, <-srvCh, auth.ErrUnauthorized)
}

func TestSecureConnRoundTrip(t *testing.T) {
	sessionKey := bytes.Repeat([]byte{0x07}, 32)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sa, err := auth.WrapConn(a, sessionKey)
	require.NoError(t, err)
	sb, err := auth.WrapConn(b, sessionKey)
	require.NoError(t, err)

	payload := []byte{0x1E, 0x00, 0x21, 0x7F, 0x60, 0x01}
	go func() {
		_, _ = sa.Write(payload)
	}()

	got := make([]byte, len(payload))
	n, err := sb.Read(got)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, got)
}
