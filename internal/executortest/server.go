// Package executortest runs a stand-in for the AutoCAD add-in on a loopback
// TCP port. It reads one JSON request and lets a Handler write the reply;
// the connection is closed when the handler returns. ReplyUntilEOF mirrors
// the add-in, which keeps reading after its reply until the client shuts
// down its write side.
package executortest

import (
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/lydakis/cadmcp/internal/wire"
)

// Handler writes the reply for one request. The server closes the
// connection after the handler returns.
type Handler func(conn net.Conn, req wire.Request)

// Server is a loopback stub executor.
type Server struct {
	listener net.Listener
	handler  Handler
	wg       sync.WaitGroup

	mu       sync.Mutex
	accepted int
	requests []wire.Request
}

// Start listens on 127.0.0.1 with an OS-assigned port and stops the server
// when the test ends.
func Start(t testing.TB, handler Handler) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening on loopback: %v", err)
	}
	s := &Server{listener: ln, handler: handler}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	t.Cleanup(s.Stop)
	return s
}

// Addr returns host:port of the listener.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Accepted returns the number of connections accepted so far.
func (s *Server) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// Requests returns the decoded requests in arrival order.
func (s *Server) Requests() []wire.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wire.Request(nil), s.requests...)
}

// Stop closes the listener and waits for in-flight connections.
func (s *Server) Stop() {
	s.listener.Close()
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // listener closed
		}
		s.mu.Lock()
		s.accepted++
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	var raw json.RawMessage
	if err := json.NewDecoder(conn).Decode(&raw); err != nil {
		return
	}
	req, err := wire.DecodeRequest(raw)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.handler != nil {
		s.handler(conn, req)
	}
}

// Reply writes resp in a single write.
func Reply(resp wire.Response) Handler {
	return func(conn net.Conn, _ wire.Request) {
		data, _ := wire.EncodeResponse(resp)
		conn.Write(data) //nolint:errcheck
	}
}

// ReplyFunc computes the reply from the request.
func ReplyFunc(fn func(req wire.Request) wire.Response) Handler {
	return func(conn net.Conn, req wire.Request) {
		Reply(fn(req))(conn, req)
	}
}

// ReplySplit writes resp in parts separate writes, sleeping delay between
// them so the client sees several TCP segments.
func ReplySplit(resp wire.Response, parts int, delay time.Duration) Handler {
	return func(conn net.Conn, _ wire.Request) {
		data, _ := wire.EncodeResponse(resp)
		writeSplit(conn, data, parts, delay)
	}
}

// ReplyRaw writes data verbatim.
func ReplyRaw(data []byte) Handler {
	return func(conn net.Conn, _ wire.Request) {
		conn.Write(data) //nolint:errcheck
	}
}

// ReplyUntilEOF writes resp and then drains the connection until the
// client half-closes it, as the add-in does.
func ReplyUntilEOF(resp wire.Response) Handler {
	return func(conn net.Conn, req wire.Request) {
		Reply(resp)(conn, req)
		io.Copy(io.Discard, conn) //nolint:errcheck
	}
}

// Hangup closes the connection without writing anything.
func Hangup() Handler {
	return func(net.Conn, wire.Request) {}
}

// Stall waits for release before closing without a reply.
func Stall(release <-chan struct{}) Handler {
	return func(net.Conn, wire.Request) {
		<-release
	}
}

// ClosedAddr returns a loopback address nothing is listening on.
func ClosedAddr(t testing.TB) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening on loopback: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func writeSplit(conn net.Conn, data []byte, parts int, delay time.Duration) {
	if parts < 1 {
		parts = 1
	}
	size := (len(data) + parts - 1) / parts
	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		if _, err := conn.Write(data[start:end]); err != nil {
			return
		}
		if end < len(data) {
			time.Sleep(delay)
		}
	}
}
