package toolbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

type addInput struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func addSchema() Schema {
	return Object(
		Number("a").Required(),
		Number("b").Required(),
	)
}

// newAddTool returns an "add" tool and a pointer to its call count.
func newAddTool() (Tool, *int) {
	calls := new(int)
	tool := New("add", Spec[addInput, float64]{
		Description: "add two numbers",
		InputSchema: addSchema(),
		Execute: func(ctx context.Context, in addInput) (float64, error) {
			*calls++
			return in.A + in.B, nil
		},
	})
	return tool, calls
}

func newAddDispatcher(t *testing.T) (*Dispatcher, *int) {
	t.Helper()
	reg := NewRegistry()
	tool, calls := newAddTool()
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	return NewDispatcher(reg), calls
}

func TestInvoke_OK(t *testing.T) {
	d, calls := newAddDispatcher(t)

	resp := d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":2,"b":3}`),
	})
	if resp.Status != StatusOK {
		t.Fatalf("status=%q error=%+v", resp.Status, resp.Error)
	}
	if resp.Result != float64(5) {
		t.Fatalf("result=%v", resp.Result)
	}
	if resp.Error != nil {
		t.Fatalf("error present on ok response: %+v", resp.Error)
	}
	if resp.InvocationID == "" {
		t.Fatal("missing invocation id")
	}
	if *calls != 1 {
		t.Fatalf("handler calls=%d", *calls)
	}
}

func TestInvoke_UnregisteredTool(t *testing.T) {
	d, calls := newAddDispatcher(t)

	resp := d.Invoke(context.Background(), Request{ToolName: "multiply"})
	if resp.Status != StatusError {
		t.Fatalf("status=%q", resp.Status)
	}
	if resp.Error.Kind != KindNotFound {
		t.Fatalf("kind=%q", resp.Error.Kind)
	}
	if resp.Result != nil {
		t.Fatalf("result present on error response: %v", resp.Result)
	}
	if *calls != 0 {
		t.Fatalf("handler ran %d times for unknown tool", *calls)
	}
}

func TestInvoke_MissingRequiredField(t *testing.T) {
	d, calls := newAddDispatcher(t)

	resp := d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":2}`),
	})
	if resp.Status != StatusError {
		t.Fatalf("status=%q", resp.Status)
	}
	if resp.Error.Kind != KindValidation {
		t.Fatalf("kind=%q", resp.Error.Kind)
	}
	if resp.Error.Field != "b" {
		t.Fatalf("field=%q, want b", resp.Error.Field)
	}
	if *calls != 0 {
		t.Fatalf("handler ran %d times on invalid input", *calls)
	}
}

func TestInvoke_WrongKind(t *testing.T) {
	d, calls := newAddDispatcher(t)

	resp := d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":"two","b":3}`),
	})
	if resp.Error == nil || resp.Error.Kind != KindValidation {
		t.Fatalf("response=%+v", resp)
	}
	if resp.Error.Field != "a" {
		t.Fatalf("field=%q, want a", resp.Error.Field)
	}
	if *calls != 0 {
		t.Fatalf("handler calls=%d", *calls)
	}
}

func TestInvoke_UnknownFieldStrict(t *testing.T) {
	d, calls := newAddDispatcher(t)

	resp := d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":2,"b":3,"c":4}`),
	})
	if resp.Error == nil || resp.Error.Kind != KindValidation {
		t.Fatalf("response=%+v", resp)
	}
	if resp.Error.Field != "c" {
		t.Fatalf("field=%q, want c", resp.Error.Field)
	}
	if *calls != 0 {
		t.Fatalf("handler calls=%d", *calls)
	}
}

func TestInvoke_UnknownFieldLenient(t *testing.T) {
	reg := NewRegistry()
	tool := New("add", Spec[addInput, float64]{
		InputSchema: LenientObject(
			Number("a").Required(),
			Number("b").Required(),
		),
		Execute: func(ctx context.Context, in addInput) (float64, error) {
			return in.A + in.B, nil
		},
	})
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg)

	resp := d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":2,"b":3,"c":4}`),
	})
	if resp.Status != StatusOK {
		t.Fatalf("status=%q error=%+v", resp.Status, resp.Error)
	}
	if resp.Result != float64(5) {
		t.Fatalf("result=%v", resp.Result)
	}
}

func TestInvoke_EmptyArguments(t *testing.T) {
	reg := NewRegistry()
	tool := New("ping", Spec[struct{}, string]{
		InputSchema: Object(),
		Execute: func(ctx context.Context, _ struct{}) (string, error) {
			return "pong", nil
		},
	})
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg)

	resp := d.Invoke(context.Background(), Request{ToolName: "ping"})
	if resp.Status != StatusOK || resp.Result != "pong" {
		t.Fatalf("response=%+v", resp)
	}
}

func TestInvoke_HandlerErrorDoesNotPoisonRegistry(t *testing.T) {
	reg := NewRegistry()
	failing := NewDynamic("flaky", DynamicSpec{
		InputSchema: Object(),
		Execute: func(ctx context.Context, args json.RawMessage) (any, error) {
			return nil, fmt.Errorf("upstream rejected the call")
		},
	})
	if err := reg.Register(failing); err != nil {
		t.Fatal(err)
	}
	addTool, _ := newAddTool()
	if err := reg.Register(addTool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg)

	resp := d.Invoke(context.Background(), Request{ToolName: "flaky"})
	if resp.Error == nil || resp.Error.Kind != KindHandler {
		t.Fatalf("response=%+v", resp)
	}
	if resp.Error.Message != "upstream rejected the call" {
		t.Fatalf("message=%q, want handler message verbatim", resp.Error.Message)
	}

	// Unrelated invocations keep working.
	resp = d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":1,"b":1}`),
	})
	if resp.Status != StatusOK || resp.Result != float64(2) {
		t.Fatalf("registry poisoned: %+v", resp)
	}
}

func TestInvoke_ResultRoundTripLossless(t *testing.T) {
	type payload struct {
		Items []string       `json:"items"`
		Meta  map[string]int `json:"meta"`
	}
	want := payload{Items: []string{"x", "y"}, Meta: map[string]int{"n": 2}}

	reg := NewRegistry()
	tool := NewDynamic("emit", DynamicSpec{
		InputSchema: Object(),
		Execute: func(ctx context.Context, args json.RawMessage) (any, error) {
			return want, nil
		},
	})
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg)

	resp := d.Invoke(context.Background(), Request{ToolName: "emit"})
	if resp.Status != StatusOK {
		t.Fatalf("response=%+v", resp)
	}
	if !reflect.DeepEqual(resp.Result, want) {
		t.Fatalf("result=%#v, want %#v", resp.Result, want)
	}
}

func TestInvoke_PanicBecomesInternalError(t *testing.T) {
	reg := NewRegistry()
	tool := NewDynamic("boom", DynamicSpec{
		InputSchema: Object(),
		Execute: func(ctx context.Context, args json.RawMessage) (any, error) {
			panic("handler bug")
		},
	})
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg)

	resp := d.Invoke(context.Background(), Request{ToolName: "boom"})
	if resp.Status != StatusError {
		t.Fatalf("status=%q", resp.Status)
	}
	if resp.Error.Kind != KindInternal {
		t.Fatalf("kind=%q", resp.Error.Kind)
	}

	// The dispatcher stays usable after recovering.
	resp = d.Invoke(context.Background(), Request{ToolName: "boom"})
	if resp.Status != StatusError || resp.Error.Kind != KindInternal {
		t.Fatalf("second invocation: %+v", resp)
	}
}

func TestInvoke_CancellationPropagates(t *testing.T) {
	reg := NewRegistry()
	entered := make(chan struct{})
	tool := NewDynamic("slow", DynamicSpec{
		InputSchema: Object(),
		Execute: func(ctx context.Context, args json.RawMessage) (any, error) {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-entered
		cancel()
	}()

	resp := d.Invoke(ctx, Request{ToolName: "slow"})
	if resp.Status != StatusError {
		t.Fatalf("status=%q", resp.Status)
	}
	if resp.Error.Kind != KindHandler {
		t.Fatalf("kind=%q", resp.Error.Kind)
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatal("context not canceled")
	}
}

func TestInvoke_TimeoutBoundsHandler(t *testing.T) {
	reg := NewRegistry()
	tool := NewDynamic("stall", DynamicSpec{
		InputSchema: Object(),
		Execute: func(ctx context.Context, args json.RawMessage) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})
	if err := reg.Register(tool); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(reg, WithTimeout(10*time.Millisecond))

	done := make(chan Response, 1)
	go func() { done <- d.Invoke(context.Background(), Request{ToolName: "stall"}) }()

	select {
	case resp := <-done:
		if resp.Status != StatusError || resp.Error.Kind != KindHandler {
			t.Fatalf("response=%+v", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("invoke did not return after timeout")
	}
}

func TestInvoke_ConcurrentInvocationsDoNotInterfere(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"left", "right"} {
		name := name
		tool := NewDynamic(name, DynamicSpec{
			InputSchema: Object(),
			Execute: func(ctx context.Context, args json.RawMessage) (any, error) {
				return name, nil
			},
		})
		if err := reg.Register(tool); err != nil {
			t.Fatal(err)
		}
	}
	d := NewDispatcher(reg)

	var wg sync.WaitGroup
	for range 50 {
		for _, name := range []string{"left", "right"} {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				resp := d.Invoke(context.Background(), Request{ToolName: name})
				if resp.Status != StatusOK || resp.Result != name {
					t.Errorf("tool %q got %+v", name, resp)
				}
			}(name)
		}
	}
	wg.Wait()
}

func TestResponse_JSONEnvelope(t *testing.T) {
	d, _ := newAddDispatcher(t)

	resp := d.Invoke(context.Background(), Request{
		ToolName:  "add",
		Arguments: json.RawMessage(`{"a":2}`),
	})
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Status string `json:"status"`
		Error  *struct {
			Kind  string `json:"kind"`
			Field string `json:"field"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Status != "error" || decoded.Error == nil {
		t.Fatalf("envelope=%s", raw)
	}
	if decoded.Error.Kind != string(KindValidation) || decoded.Error.Field != "b" {
		t.Fatalf("envelope=%s", raw)
	}
}
