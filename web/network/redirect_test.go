package network

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainHTTPIsRedirected(t *testing.T) {
	server, client := net.Pipe()
	conn := &redirectConn{Conn: server, reader: bufio.NewReader(server)}

	go func() {
		_, _ = client.Write([]byte("GET /admin?x=1 HTTP/1.1\r\nHost: cms.local:3000\r\n\r\n"))
	}()
	done := make(chan error, 1)
	go func() {
		_, err := conn.Read(make([]byte, 16))
		done <- err
	}()

	resp, err := http.ReadResponse(bufio.NewReader(client), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusPermanentRedirect, resp.StatusCode)
	assert.Equal(t, "https://cms.local:3000/admin?x=1", resp.Header.Get("Location"))
	assert.ErrorIs(t, <-done, net.ErrClosed)
}

func TestTLSPassesThrough(t *testing.T) {
	server, client := net.Pipe()
	conn := &redirectConn{Conn: server, reader: bufio.NewReader(server)}

	payload := []byte{tlsHandshake, 0x03, 0x01, 0x00}
	go func() {
		_, _ = client.Write(payload)
		_ = client.Close()
	}()

	got, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
