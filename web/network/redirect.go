// Package network wraps the TLS listener of the web server so plain HTTP
// requests on the HTTPS port are redirected instead of failing the handshake.
package network

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// tlsHandshake is the content type byte opening every TLS client hello.
const tlsHandshake = 0x16

type redirectListener struct {
	net.Listener
}

// NewRedirectListener returns connections that answer plain HTTP with a
// redirect to the https:// URL and pass TLS traffic through untouched.
func NewRedirectListener(l net.Listener) net.Listener {
	return &redirectListener{Listener: l}
}

func (l *redirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &redirectConn{Conn: conn, reader: bufio.NewReader(conn)}, nil
}

type redirectConn struct {
	net.Conn

	reader *bufio.Reader
	once   sync.Once
	err    error
}

func (c *redirectConn) sniff() {
	first, err := c.reader.Peek(1)
	if err != nil {
		c.err = err
		return
	}
	if first[0] == tlsHandshake {
		return
	}

	req, err := http.ReadRequest(c.reader)
	if err != nil {
		c.err = err
		_ = c.Conn.Close()
		return
	}
	resp := http.Response{
		StatusCode: http.StatusPermanentRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
	}
	resp.Header.Set("Location", "https://"+req.Host+req.RequestURI)
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
	c.err = net.ErrClosed
}

func (c *redirectConn) Read(buf []byte) (int, error) {
	c.once.Do(c.sniff)
	if c.err != nil {
		return 0, c.err
	}
	return c.reader.Read(buf)
}
