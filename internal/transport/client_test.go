package transport

import (
	"context"
	"errors"
	"net"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lydakis/cadmcp/internal/executortest"
	"github.com/lydakis/cadmcp/internal/wire"
)

func newTestClient(addr string) *Client {
	return NewClient(addr, 2*time.Second)
}

func TestCallDecodesReplyAndSendsRequest(t *testing.T) {
	stub := executortest.Start(t, executortest.Reply(wire.Response{Success: true, Message: "Layer created"}))

	req := wire.Request{Command: "create_layer", Args: wire.Args{"name": "Walls", "color": int64(7)}}
	res := newTestClient(stub.Addr()).Call(context.Background(), req)

	if res.Kind != KindDecoded {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindDecoded, res.Err)
	}
	if !res.Response.Success || res.Response.Message != "Layer created" {
		t.Fatalf("Response = %#v", res.Response)
	}
	if res.Addr != stub.Addr() {
		t.Fatalf("Addr = %q, want %q", res.Addr, stub.Addr())
	}

	reqs := stub.Requests()
	if len(reqs) != 1 {
		t.Fatalf("stub saw %d requests, want 1", len(reqs))
	}
	if !reflect.DeepEqual(reqs[0], req) {
		t.Fatalf("stub request = %#v, want %#v", reqs[0], req)
	}
}

func TestCallFinishesWhenExecutorWaitsForClientEOF(t *testing.T) {
	want := wire.Response{Success: true, Message: "Layer created"}
	stub := executortest.Start(t, executortest.ReplyUntilEOF(want))

	done := make(chan Result, 1)
	go func() {
		done <- newTestClient(stub.Addr()).Call(context.Background(), wire.Request{Command: "create_layer", Args: wire.Args{"name": "Walls"}})
	}()

	select {
	case res := <-done:
		if res.Kind != KindDecoded {
			t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindDecoded, res.Err)
		}
		if res.Response != want {
			t.Fatalf("Response = %#v, want %#v", res.Response, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Call() did not return while the executor waited for EOF")
	}
}

func TestCallReassemblesReplySplitAcrossWrites(t *testing.T) {
	want := wire.Response{Success: true, Message: "Found 3 overlapping line pairs."}
	stub := executortest.Start(t, executortest.ReplySplit(want, 3, 50*time.Millisecond))

	res := newTestClient(stub.Addr()).Call(context.Background(), wire.Request{Command: "find_overlaps"})
	if res.Kind != KindDecoded {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindDecoded, res.Err)
	}
	if res.Response != want {
		t.Fatalf("Response = %#v, want %#v", res.Response, want)
	}
}

func TestCallReadsReplyLargerThanOneBuffer(t *testing.T) {
	message := strings.Repeat("Layer-0 (Color: 7), ", 20000)
	stub := executortest.Start(t, executortest.ReplySplit(wire.Response{Success: true, Message: message}, 7, 10*time.Millisecond))

	res := newTestClient(stub.Addr()).Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindDecoded {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindDecoded, res.Err)
	}
	if res.Response.Message != message {
		t.Fatalf("Message length = %d, want %d", len(res.Response.Message), len(message))
	}
	if res.Bytes <= readChunkSize {
		t.Fatalf("Bytes = %d, want more than one read chunk", res.Bytes)
	}
}

func TestCallHangupWithoutReplyIsNoData(t *testing.T) {
	stub := executortest.Start(t, executortest.Hangup())

	res := newTestClient(stub.Addr()).Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindNoData {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindNoData, res.Err)
	}
}

func TestCallGarbageReplyIsMalformed(t *testing.T) {
	stub := executortest.Start(t, executortest.ReplyRaw([]byte("Unknown command: draw_arc")))

	res := newTestClient(stub.Addr()).Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindMalformedResponse {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindMalformedResponse, res.Err)
	}
	if !errors.Is(res.Err, wire.ErrMalformedResponse) {
		t.Fatalf("Err = %v, want ErrMalformedResponse", res.Err)
	}
}

func TestCallTruncatedReplyIsMalformed(t *testing.T) {
	stub := executortest.Start(t, executortest.ReplyRaw([]byte(`{"Success": true, "Message": "Drawn li`)))

	res := newTestClient(stub.Addr()).Call(context.Background(), wire.Request{Command: "draw_line"})
	if res.Kind != KindMalformedResponse {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindMalformedResponse, res.Err)
	}
}

func TestCallRefusedConnectionIsNoConnection(t *testing.T) {
	res := newTestClient(executortest.ClosedAddr(t)).Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindNoConnection {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindNoConnection, res.Err)
	}
	if res.Reason != ReasonRefused {
		t.Fatalf("Reason = %q, want %q", res.Reason, ReasonRefused)
	}
}

type blockingDialer struct{}

func (blockingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	<-ctx.Done()
	return nil, &net.OpError{Op: "dial", Net: network, Err: ctx.Err()}
}

func TestCallConnectTimeoutIsNoConnection(t *testing.T) {
	c := &Client{Addr: "127.0.0.1:8964", ConnectTimeout: 50 * time.Millisecond, Dialer: blockingDialer{}}

	started := time.Now()
	res := c.Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindNoConnection {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindNoConnection, res.Err)
	}
	if res.Reason != ReasonTimeout {
		t.Fatalf("Reason = %q, want %q", res.Reason, ReasonTimeout)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("Call() took %v, want about the connect timeout", elapsed)
	}
}

func TestCallCanceledContextIsNoConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Client{Addr: "127.0.0.1:8964", ConnectTimeout: time.Second, Dialer: blockingDialer{}}
	res := c.Call(ctx, wire.Request{Command: "get_layers"})
	if res.Kind != KindNoConnection {
		t.Fatalf("Kind = %v, want %v", res.Kind, KindNoConnection)
	}
	if res.Reason != ReasonCanceled {
		t.Fatalf("Reason = %q, want %q", res.Reason, ReasonCanceled)
	}
}

type failingDialer struct{ err error }

func (d failingDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	return nil, d.err
}

func TestCallResolverFailureIsTransportFailure(t *testing.T) {
	dnsErr := &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "autocad.invalid"}}
	c := &Client{Addr: "autocad.invalid:8964", Dialer: failingDialer{err: dnsErr}}

	res := c.Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindTransportFailure {
		t.Fatalf("Kind = %v, want %v", res.Kind, KindTransportFailure)
	}
	if !strings.Contains(res.Err.Error(), "no such host") {
		t.Fatalf("Err = %v, want resolver detail", res.Err)
	}
}

func TestCallReadTimeoutBeforeAnyDataIsNoData(t *testing.T) {
	release := make(chan struct{})
	stub := executortest.Start(t, executortest.Stall(release))
	defer close(release)

	c := newTestClient(stub.Addr())
	c.ReadTimeout = 50 * time.Millisecond
	res := c.Call(context.Background(), wire.Request{Command: "get_layers"})
	if res.Kind != KindNoData {
		t.Fatalf("Kind = %v, want %v (err=%v)", res.Kind, KindNoData, res.Err)
	}
}

func TestCallUnencodableArgsNeverDials(t *testing.T) {
	dialer := &countingDialer{}
	c := &Client{Addr: "127.0.0.1:8964", Dialer: dialer}

	res := c.Call(context.Background(), wire.Request{Command: "draw_line", Args: wire.Args{"points": []float64{1, 2}}})
	if res.Kind != KindTransportFailure {
		t.Fatalf("Kind = %v, want %v", res.Kind, KindTransportFailure)
	}
	if dialer.dials() != 0 {
		t.Fatalf("dials = %d, want 0", dialer.dials())
	}
}

func TestCallClosesConnectionOnEveryPath(t *testing.T) {
	handlers := map[string]executortest.Handler{
		"decoded":   executortest.Reply(wire.Response{Success: true}),
		"no_data":   executortest.Hangup(),
		"malformed": executortest.ReplyRaw([]byte("<html>")),
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			stub := executortest.Start(t, handler)
			dialer := &countingDialer{}
			c := &Client{Addr: stub.Addr(), ConnectTimeout: time.Second, Dialer: dialer}

			c.Call(context.Background(), wire.Request{Command: "get_layers"})
			if dialer.dials() != 1 || dialer.closes() != 1 {
				t.Fatalf("dials/closes = %d/%d, want 1/1", dialer.dials(), dialer.closes())
			}
		})
	}
}

func TestCallUsesFreshConnectionPerCall(t *testing.T) {
	stub := executortest.Start(t, executortest.Reply(wire.Response{Success: true}))
	c := newTestClient(stub.Addr())

	for i := 0; i < 3; i++ {
		if res := c.Call(context.Background(), wire.Request{Command: "get_layers"}); res.Kind != KindDecoded {
			t.Fatalf("call %d Kind = %v, want %v", i, res.Kind, KindDecoded)
		}
	}
	if got := stub.Accepted(); got != 3 {
		t.Fatalf("Accepted() = %d, want 3", got)
	}
}

func TestKindString(t *testing.T) {
	if got := KindNoData.String(); got != "no_data" {
		t.Fatalf("KindNoData.String() = %q", got)
	}
	if got := Kind(42).String(); got != "kind(42)" {
		t.Fatalf("Kind(42).String() = %q", got)
	}
}

type countingDialer struct {
	mu     sync.Mutex
	dialed int
	closed int
}

func (d *countingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.dialed++
	d.mu.Unlock()
	return &closeCountingConn{Conn: conn, onClose: func() {
		d.mu.Lock()
		d.closed++
		d.mu.Unlock()
	}}, nil
}

func (d *countingDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialed
}

func (d *countingDialer) closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type closeCountingConn struct {
	net.Conn
	once    sync.Once
	onClose func()
}

func (c *closeCountingConn) Close() error {
	c.once.Do(c.onClose)
	return c.Conn.Close()
}
