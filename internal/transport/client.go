package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/lydakis/cadmcp/internal/wire"
)

const readChunkSize = 8192

// Kind classifies how a call ended at the transport level.
type Kind int

const (
	// KindDecoded means the executor replied with a well-formed Response.
	KindDecoded Kind = iota
	// KindNoConnection means the executor refused the connection or did
	// not accept it within the connect timeout.
	KindNoConnection
	// KindNoData means the executor accepted the connection and closed it
	// without sending anything.
	KindNoData
	// KindMalformedResponse means bytes arrived but did not decode.
	KindMalformedResponse
	// KindTransportFailure covers every other socket or OS-level fault.
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindDecoded:
		return "decoded"
	case KindNoConnection:
		return "no_connection"
	case KindNoData:
		return "no_data"
	case KindMalformedResponse:
		return "malformed_response"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dial failure reasons reported in Result.Reason.
const (
	ReasonRefused  = "refused"
	ReasonTimeout  = "timeout"
	ReasonCanceled = "canceled"
)

// Result is the raw outcome of one request/response cycle.
type Result struct {
	Kind     Kind
	Response wire.Response // set when Kind == KindDecoded
	Err      error         // set for every other kind
	Reason   string        // dial failure reason, when Kind == KindNoConnection
	Addr     string
	Bytes    int
	Elapsed  time.Duration
}

// Dialer opens the connection for a call. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client sends one request per TCP connection to the executor.
type Client struct {
	Addr           string
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for each chunk of the reply. Zero waits
	// until the executor closes the connection.
	ReadTimeout time.Duration
	Dialer      Dialer
}

// NewClient creates a client for addr with the given connect timeout.
func NewClient(addr string, connectTimeout time.Duration) *Client {
	return &Client{Addr: addr, ConnectTimeout: connectTimeout}
}

// Call performs one connect/send/receive cycle. The write side is shut
// down once the request is sent and the reply ends when the executor closes
// the connection; the connection is always closed before Call returns.
func (c *Client) Call(ctx context.Context, req wire.Request) Result {
	started := time.Now()
	res := c.call(ctx, req)
	res.Addr = c.Addr
	res.Elapsed = time.Since(started)
	return res
}

func (c *Client) call(ctx context.Context, req wire.Request) Result {
	payload, err := wire.Encode(req)
	if err != nil {
		return Result{Kind: KindTransportFailure, Err: err}
	}

	conn, reason, err := c.dial(ctx)
	if err != nil {
		if reason != "" {
			return Result{Kind: KindNoConnection, Err: err, Reason: reason}
		}
		return Result{Kind: KindTransportFailure, Err: err}
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		return Result{Kind: KindTransportFailure, Err: fmt.Errorf("sending request: %w", err)}
	}
	// The add-in keeps reading after it replies and only closes once it
	// sees EOF from us.
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		cw.CloseWrite() //nolint:errcheck
	}

	data, readErr := c.readUntilClose(conn)
	if len(data) == 0 {
		err := errors.New("connection closed without a response")
		if readErr != nil {
			err = fmt.Errorf("reading response: %w", readErr)
		}
		return Result{Kind: KindNoData, Err: err}
	}

	resp, err := wire.Decode(data)
	if err != nil {
		if readErr != nil {
			return Result{Kind: KindTransportFailure, Err: fmt.Errorf("reading response after %d bytes: %w", len(data), readErr), Bytes: len(data)}
		}
		return Result{Kind: KindMalformedResponse, Err: err, Bytes: len(data)}
	}
	return Result{Kind: KindDecoded, Response: resp, Bytes: len(data)}
}

// dial connects within the connect timeout. On failure the reason is
// non-empty when the executor is unavailable rather than unreachable.
func (c *Client) dial(ctx context.Context) (net.Conn, string, error) {
	if c.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
	}

	dialer := c.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, dialFailureReason(ctx.Err(), err), err
	}
	return conn, "", nil
}

// readUntilClose accumulates chunks in arrival order until EOF. A non-EOF
// error is returned alongside whatever arrived before it.
func (c *Client) readUntilClose(conn net.Conn) ([]byte, error) {
	buf := make([]byte, readChunkSize)
	var data []byte
	for {
		if c.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(c.ReadTimeout)); err != nil {
				return data, err
			}
		}
		n, err := conn.Read(buf)
		data = append(data, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return data, err
		}
	}
}

// dialFailureReason returns "" for resolver and local socket faults, which
// are not the executor being down.
func dialFailureReason(ctxErr, err error) string {
	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(ctxErr, context.Canceled):
		return ReasonCanceled
	case isConnRefused(err):
		return ReasonRefused
	case errors.Is(err, os.ErrDeadlineExceeded):
		return ReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ""
}
