package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	ID             *int64          `json:"id"`
	Method         string          `json:"method"`
	Arguments      json.RawMessage `json:"arguments"`
	Result         json.RawMessage `json:"result"`
	Error          *ErrorPayload   `json:"error"`
	NotImplemented bool            `json:"notImplemented"`
}

func decodeAll(t *testing.T, out *bytes.Buffer) []message {
	t.Helper()
	var msgs []message
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var m message
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		msgs = append(msgs, m)
	}
	return msgs
}

func serve(t *testing.T, input string, h Handler) []message {
	t.Helper()
	var out bytes.Buffer
	ch := New("test", strings.NewReader(input), &out, zerolog.Nop())
	ch.SetMethodCallHandler(h)
	require.NoError(t, ch.Serve(context.Background()))
	return decodeAll(t, &out)
}

func TestChannel_SuccessReply(t *testing.T) {
	h := HandlerFunc(func(_ context.Context, call MethodCall, result Result) {
		var args struct {
			Name string `json:"name"`
		}
		if err := call.DecodeArguments(&args); err != nil {
			result.Error("INVALID_ARGUMENT", err.Error(), nil)
			return
		}
		result.Success("hello " + args.Name)
	})

	msgs := serve(t, `{"id":1,"method":"greet","arguments":{"name":"host"}}`+"\n", h)

	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].ID)
	assert.Equal(t, int64(1), *msgs[0].ID)
	assert.JSONEq(t, `"hello host"`, string(msgs[0].Result))
}

func TestChannel_MissingArguments(t *testing.T) {
	h := HandlerFunc(func(_ context.Context, call MethodCall, result Result) {
		var v map[string]any
		if err := call.DecodeArguments(&v); err != nil {
			result.Error("INVALID_ARGUMENT", err.Error(), nil)
			return
		}
		result.Success(true)
	})

	msgs := serve(t, `{"id":3,"method":"x"}`+"\n"+`{"id":4,"method":"x","arguments":null}`+"\n", h)

	require.Len(t, msgs, 2)
	for _, m := range msgs {
		require.NotNil(t, m.Error)
		assert.Equal(t, "INVALID_ARGUMENT", m.Error.Code)
	}
}

func TestChannel_NotImplementedWithoutHandler(t *testing.T) {
	msgs := serve(t, `{"id":2,"method":"anything"}`+"\n", nil)

	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].NotImplemented)
}

func TestChannel_MalformedLines(t *testing.T) {
	calls := 0
	h := HandlerFunc(func(_ context.Context, _ MethodCall, result Result) {
		calls++
		result.Success(true)
	})

	input := "not json\n\n" + `{"id":5}` + "\n" + `{"id":6,"method":"ok"}` + "\n"
	msgs := serve(t, input, h)

	require.Len(t, msgs, 3)
	assert.Equal(t, CodeMalformedMessage, msgs[0].Error.Code)
	assert.Nil(t, msgs[0].ID)
	assert.Equal(t, CodeMalformedMessage, msgs[1].Error.Code)
	assert.Equal(t, int64(5), *msgs[1].ID)
	assert.JSONEq(t, "true", string(msgs[2].Result))
	assert.Equal(t, 1, calls)
}

func TestChannel_OversizedLineSkipped(t *testing.T) {
	var methods []string
	h := HandlerFunc(func(_ context.Context, call MethodCall, result Result) {
		methods = append(methods, call.Method)
		result.Success(true)
	})

	big := `{"id":1,"method":"notify","arguments":{"title":"` + strings.Repeat("x", maxMessageSize) + `"}}`
	input := big + "\n" + `{"id":2,"method":"close","arguments":{"identifier":"n1"}}` + "\r\n"
	msgs := serve(t, input, h)

	require.Len(t, msgs, 2)
	require.NotNil(t, msgs[0].Error)
	assert.Equal(t, CodeMalformedMessage, msgs[0].Error.Code)
	assert.Nil(t, msgs[0].ID)
	assert.Equal(t, int64(2), *msgs[1].ID)
	assert.JSONEq(t, "true", string(msgs[1].Result))
	assert.Equal(t, []string{"close"}, methods)
}

func TestChannel_LastLineWithoutNewline(t *testing.T) {
	msgs := serve(t, `{"id":9,"method":"ok"}`, HandlerFunc(func(_ context.Context, _ MethodCall, result Result) {
		result.Success("done")
	}))

	require.Len(t, msgs, 1)
	assert.JSONEq(t, `"done"`, string(msgs[0].Result))
}

func TestChannel_HandlerWithoutReply(t *testing.T) {
	h := HandlerFunc(func(context.Context, MethodCall, Result) {})

	msgs := serve(t, `{"id":7,"method":"silent"}`+"\n", h)

	require.Len(t, msgs, 1)
	assert.Equal(t, CodeNoResponse, msgs[0].Error.Code)
}

func TestChannel_DuplicateReplyDropped(t *testing.T) {
	h := HandlerFunc(func(_ context.Context, _ MethodCall, result Result) {
		result.Success(true)
		result.Success(false)
		result.NotImplemented()
	})

	msgs := serve(t, `{"id":8,"method":"twice"}`+"\n", h)

	require.Len(t, msgs, 1)
	assert.JSONEq(t, "true", string(msgs[0].Result))
}

func TestChannel_InvokeMethodConcurrent(t *testing.T) {
	var out bytes.Buffer
	ch := New("test", strings.NewReader(""), &out, zerolog.Nop())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ch.InvokeMethod("onEvent", map[string]any{"n": fmt.Sprint(i)}))
		}()
	}
	wg.Wait()

	msgs := decodeAll(t, &out)
	require.Len(t, msgs, 50)
	for _, m := range msgs {
		assert.Equal(t, "onEvent", m.Method)
		assert.Nil(t, m.ID)
	}
}

func TestChannel_ServeStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ch := New("test", pr, &bytes.Buffer{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ch.Serve(ctx), context.Canceled)
}
