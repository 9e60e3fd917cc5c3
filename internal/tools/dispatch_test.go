package tools

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lydakis/cadmcp/internal/executortest"
	"github.com/lydakis/cadmcp/internal/response"
	"github.com/lydakis/cadmcp/internal/transport"
	"github.com/lydakis/cadmcp/internal/wire"
)

type countingCaller struct {
	calls atomic.Int32
	mu    sync.Mutex
	last  wire.Request
	res   transport.Result
}

func (c *countingCaller) Call(_ context.Context, req wire.Request) transport.Result {
	c.calls.Add(1)
	c.mu.Lock()
	c.last = req
	c.mu.Unlock()
	return c.res
}

func newStubDispatcher(t *testing.T, handler executortest.Handler) (*Dispatcher, *executortest.Server) {
	t.Helper()
	stub := executortest.Start(t, handler)
	client := transport.NewClient(stub.Addr(), 2*time.Second)
	return NewDispatcher(NewRegistry(), client), stub
}

func TestInvokeInvalidArgumentsNeverCallsExecutor(t *testing.T) {
	caller := &countingCaller{}
	d := NewDispatcher(NewRegistry(), caller)

	cases := []struct {
		tool string
		raw  map[string]any
	}{
		{"draw_circle", map[string]any{"center_x": 0, "center_y": 0, "radius": 0}},
		{"draw_circle", map[string]any{"center_x": 0, "center_y": 0, "radius": -1}},
		{"set_layer_color", map[string]any{"layer": "Walls", "color": 300}},
		{"update_block_description", map[string]any{"name": "Door", "description": strings.Repeat("x", 2001)}},
		{"create_layer", map[string]any{}},
		{"draw_arc", map[string]any{}},
	}
	for _, tc := range cases {
		out := d.Invoke(context.Background(), tc.tool, tc.raw)
		if out.Class != response.ValidationError {
			t.Fatalf("Invoke(%s, %v).Class = %v, want %v", tc.tool, tc.raw, out.Class, response.ValidationError)
		}
		if !strings.HasPrefix(out.Text, "Invalid arguments: ") {
			t.Fatalf("Invoke(%s).Text = %q, want validation prefix", tc.tool, out.Text)
		}
	}
	if got := caller.calls.Load(); got != 0 {
		t.Fatalf("executor calls = %d, want 0", got)
	}
}

func TestRunInvalidRecordNeverCallsExecutor(t *testing.T) {
	caller := &countingCaller{}
	d := NewDispatcher(NewRegistry(), caller)

	out := d.Run(context.Background(), DrawCircle{CenterX: 0, CenterY: 0, Radius: -1, Layer: "0"})
	if out.Class != response.ValidationError {
		t.Fatalf("Run().Class = %v, want %v", out.Class, response.ValidationError)
	}
	if got := caller.calls.Load(); got != 0 {
		t.Fatalf("executor calls = %d, want 0", got)
	}
}

func TestRunNilInvocation(t *testing.T) {
	d := NewDispatcher(NewRegistry(), &countingCaller{})
	if out := d.Run(context.Background(), nil); out.Class != response.ValidationError {
		t.Fatalf("Run(nil).Class = %v, want %v", out.Class, response.ValidationError)
	}
}

func TestInvokeCreateLayerReturnsExecutorMessage(t *testing.T) {
	d, stub := newStubDispatcher(t, executortest.Reply(wire.Response{Success: true, Message: "Layer created"}))

	out := d.Invoke(context.Background(), "create_layer", map[string]any{"name": "Walls", "color": 7})
	if out.Class != response.OK || out.Text != "Layer created" {
		t.Fatalf("Invoke() = %+v, want OK %q", out, "Layer created")
	}

	reqs := stub.Requests()
	if len(reqs) != 1 {
		t.Fatalf("stub saw %d requests, want 1", len(reqs))
	}
	want := wire.Request{Command: "create_layer", Args: wire.Args{"name": "Walls", "color": int64(7)}}
	if !reflect.DeepEqual(reqs[0], want) {
		t.Fatalf("stub request = %#v, want %#v", reqs[0], want)
	}
}

func TestInvokeRemoteFailureIsDistinguishable(t *testing.T) {
	d, _ := newStubDispatcher(t, executortest.Reply(wire.Response{Success: false, Message: "Layer exists"}))

	out := d.Invoke(context.Background(), "create_layer", map[string]any{"name": "Walls", "color": 7})
	if out.Class != response.RemoteExecutionError {
		t.Fatalf("Invoke().Class = %v, want %v", out.Class, response.RemoteExecutionError)
	}
	if !strings.Contains(out.Text, "Layer exists") || !strings.HasPrefix(out.Text, "AutoCAD Error: ") {
		t.Fatalf("Invoke().Text = %q", out.Text)
	}
}

func TestInvokeConnectLinesSendsOnlyTolerance(t *testing.T) {
	d, stub := newStubDispatcher(t, executortest.Reply(wire.Response{Success: true, Message: "Connected 2 endpoints."}))

	out := d.Invoke(context.Background(), "connect_lines", map[string]any{"tolerance": 5.0})
	if out.Class != response.OK {
		t.Fatalf("Invoke() = %+v, want OK", out)
	}
	want := wire.Args{"tolerance": 5.0}
	if got := stub.Requests()[0].Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("sent args = %#v, want %#v", got, want)
	}
}

func TestInvokeSplitReplyIsReassembled(t *testing.T) {
	msg := "Layers: 0 (Color: 7), A-WALL (Color: 1), A-DOOR (Color: 3)"
	d, _ := newStubDispatcher(t, executortest.ReplySplit(wire.Response{Success: true, Message: msg}, 4, 30*time.Millisecond))

	out := d.Invoke(context.Background(), "get_layers", nil)
	if out.Class != response.OK || out.Text != msg {
		t.Fatalf("Invoke() = %+v, want %q", out, msg)
	}
}

func TestInvokeTransportOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		handler executortest.Handler
		want    response.Class
	}{
		{"hangup", executortest.Hangup(), response.EmptyResponse},
		{"garbage", executortest.ReplyRaw([]byte("\x00\x01 not json")), response.MalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newStubDispatcher(t, tc.handler)
			out := d.Invoke(context.Background(), "get_layers", nil)
			if out.Class != tc.want {
				t.Fatalf("Invoke().Class = %v, want %v (text=%q)", out.Class, tc.want, out.Text)
			}
		})
	}
}

func TestInvokeExecutorDownNamesEndpoint(t *testing.T) {
	addr := executortest.ClosedAddr(t)
	d := NewDispatcher(NewRegistry(), transport.NewClient(addr, time.Second))

	out := d.Invoke(context.Background(), "get_layers", nil)
	if out.Class != response.ConnectionUnavailable {
		t.Fatalf("Invoke().Class = %v, want %v", out.Class, response.ConnectionUnavailable)
	}
	if !strings.Contains(out.Text, addr) || !strings.Contains(out.Text, "STARTMCP") {
		t.Fatalf("Invoke().Text = %q, want endpoint and startup guidance", out.Text)
	}
}

func TestInvokeConcurrentCallsUseOwnConnections(t *testing.T) {
	d, stub := newStubDispatcher(t, executortest.ReplyFunc(func(req wire.Request) wire.Response {
		return wire.Response{Success: true, Message: req.Args["name"].(string)}
	}))

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan string, n)
	for i := 0; i < n; i++ {
		name := "Layer-" + string(rune('A'+i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := d.Invoke(context.Background(), "create_layer", map[string]any{"name": name})
			if out.Text != name {
				errs <- out.Text
			}
		}()
	}
	wg.Wait()
	close(errs)
	for text := range errs {
		t.Fatalf("concurrent Invoke() returned %q for another call", text)
	}
	if got := stub.Accepted(); got != n {
		t.Fatalf("Accepted() = %d, want %d", got, n)
	}
}

type panickingCaller struct{}

func (panickingCaller) Call(context.Context, wire.Request) transport.Result {
	panic("boom")
}

func TestInvokeRecoversFromPanics(t *testing.T) {
	var logs bytes.Buffer
	d := NewDispatcher(NewRegistry(), panickingCaller{}, WithLogger(zerolog.New(&logs)))

	out := d.Invoke(context.Background(), "get_layers", nil)
	if out.Class != response.TransportFailure || !strings.Contains(out.Text, "boom") {
		t.Fatalf("Invoke() = %+v, want transport failure mentioning panic", out)
	}
	if !strings.Contains(logs.String(), "tool call panicked") {
		t.Fatalf("logs = %q, want panic record", logs.String())
	}
}

type brokenInvocation struct{}

func (brokenInvocation) Command() Command { panic("no command") }
func (brokenInvocation) Validate() error  { return nil }
func (brokenInvocation) Args() wire.Args  { return nil }

func TestRunRecoversFromPanickingInvocation(t *testing.T) {
	var logs bytes.Buffer
	caller := &countingCaller{}
	d := NewDispatcher(NewRegistry(), caller, WithLogger(zerolog.New(&logs)))

	out := d.Run(context.Background(), brokenInvocation{})
	if out.Class != response.TransportFailure || !strings.Contains(out.Text, "no command") {
		t.Fatalf("Run() = %+v, want transport failure mentioning panic", out)
	}
	if got := caller.calls.Load(); got != 0 {
		t.Fatalf("caller invoked %d times, want 0", got)
	}
	if !strings.Contains(logs.String(), `"command":"unknown"`) {
		t.Fatalf("logs = %q, want panic record for unknown command", logs.String())
	}
}

func TestInvokeLogsRequestID(t *testing.T) {
	var logs bytes.Buffer
	caller := &countingCaller{res: transport.Result{Kind: transport.KindDecoded, Response: wire.Response{Success: true}}}
	d := NewDispatcher(NewRegistry(), caller, WithLogger(zerolog.New(&logs)))

	if out := d.Invoke(context.Background(), "create_new_drawing", nil); out.Text != "Success" {
		t.Fatalf("Invoke().Text = %q, want Success", out.Text)
	}
	for _, want := range []string{`"request_id":"`, `"command":"create_new_drawing"`, `"outcome":"ok"`} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("logs = %q, want %s", logs.String(), want)
		}
	}
	if caller.last.Command != "create_new_drawing" || len(caller.last.Args) != 0 {
		t.Fatalf("sent request = %#v", caller.last)
	}
}
