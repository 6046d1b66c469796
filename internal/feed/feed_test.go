package feed

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/step"
	"github.com/vk/attrgrid/internal/store"
	"github.com/zclconf/go-cty/cty"
	sio "github.com/zishang520/socket.io/v2/socket"
)

func newStore(t *testing.T) *store.Synchronized {
	t.Helper()
	s := store.New()
	require.NoError(t, s.Describe("a", step.New("positive", func(v cty.Value, _ map[string]cty.Value) (cty.Value, error) {
		if !v.IsNull() && v.LessThan(cty.Zero).True() {
			return cty.NilVal, attrerr.Invalid("le than min")
		}
		return v, nil
	})))
	require.NoError(t, s.Describe("b", step.New("copy", func(_ cty.Value, deps map[string]cty.Value) (cty.Value, error) {
		return deps["a"], nil
	}, "a")))
	require.NoError(t, s.Describe("c", step.New("broken", func(cty.Value, map[string]cty.Value) (cty.Value, error) {
		return cty.NilVal, errors.New("boom")
	})))
	return store.NewSynchronized(s)
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name string
		data []any
		want Ack
	}{
		{name: "decoded object", data: []any{map[string]any{"a": 3.0}}, want: Ack{OK: true, Assigned: 1}},
		{name: "json string", data: []any{`{"a": 4}`}, want: Ack{OK: true, Assigned: 1}},
		{name: "json bytes", data: []any{[]byte(`{"a": 5}`)}, want: Ack{OK: true, Assigned: 1}},
		{name: "no payload", data: nil, want: Ack{Error: "event carries no payload", Kind: "BadRequest"}},
		{name: "not an object", data: []any{[]any{1.0}}, want: Ack{Kind: "BadRequest"}},
		{name: "unknown attribute", data: []any{map[string]any{"zzz": 1.0}}, want: Ack{Kind: "AttributeNotExist"}},
		{name: "rejected value", data: []any{map[string]any{"a": -1.0}}, want: Ack{Kind: "InvalidValue"}},
		{name: "failing step", data: []any{map[string]any{"c": 1.0}}, want: Ack{Kind: "StepFailed"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(newStore(t), tc.data...)
			assert.Equal(t, tc.want.OK, got.OK)
			assert.Equal(t, tc.want.Assigned, got.Assigned)
			assert.Equal(t, tc.want.Kind, got.Kind)
			if tc.want.Error != "" {
				assert.Equal(t, tc.want.Error, got.Error)
			}
			if !tc.want.OK {
				assert.NotEmpty(t, got.Error)
			}
		})
	}
}

func TestApply_RecomputesDependents(t *testing.T) {
	st := newStore(t)
	ack := Apply(st, map[string]any{"a": 7.0})
	require.True(t, ack.OK, ack.Error)

	b, err := st.Get("b")
	require.NoError(t, err)
	assert.True(t, b.Equals(cty.NumberIntVal(7)).True())
}

func TestConnect_InvalidURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, Config{URL: "://bad"}, newStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse feed URL")
}

func TestAck_Payload(t *testing.T) {
	assert.Equal(t, map[string]any{"ok": true, "assigned": 2}, Ack{OK: true, Assigned: 2}.Payload())
	assert.Equal(t, map[string]any{"ok": false, "assigned": 0, "error": "x", "kind": "BadRequest"},
		Ack{Error: "x", Kind: "BadRequest"}.Payload())
}

// hub is an in-process socket.io server the feed connects to.
type hub struct {
	URL     string
	server  *sio.Server
	clients chan *sio.Socket
	results chan map[string]any
}

func newHub(t *testing.T) *hub {
	t.Helper()
	h := &hub{
		server:  sio.NewServer(nil, nil),
		clients: make(chan *sio.Socket, 1),
		results: make(chan map[string]any, 4),
	}
	h.server.On("connection", func(clients ...any) {
		client := clients[0].(*sio.Socket)
		client.On(DefaultEvent+"_result", func(data ...any) {
			if len(data) > 0 {
				ack, _ := data[0].(map[string]any)
				h.results <- ack
			}
		})
		h.clients <- client
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", h.server.ServeHandler(nil))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		h.server.Close(nil)
		srv.Close()
	})
	h.URL = srv.URL + "/socket.io/"
	return h
}

func (h *hub) client(t *testing.T) *sio.Socket {
	t.Helper()
	select {
	case c := <-h.clients:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("feed never joined the hub")
		return nil
	}
}

func (h *hub) result(t *testing.T) map[string]any {
	t.Helper()
	select {
	case r := <-h.results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no result acknowledged")
		return nil
	}
}

func TestConnect_AppliesEvents(t *testing.T) {
	h := newHub(t)
	st := newStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	f, err := Connect(ctx, Config{URL: h.URL}, st)
	require.NoError(t, err)
	defer f.Close()

	client := h.client(t)

	t.Run("assignments are applied and acknowledged", func(t *testing.T) {
		require.NoError(t, client.Emit(DefaultEvent, map[string]any{"a": 7}))

		ack := h.result(t)
		assert.Equal(t, true, ack["ok"])
		assert.EqualValues(t, 1, ack["assigned"])

		b, err := st.Get("b")
		require.NoError(t, err)
		assert.True(t, b.Equals(cty.NumberIntVal(7)).True(), "b = %#v", b)
	})

	t.Run("rejected batches report the error kind", func(t *testing.T) {
		require.NoError(t, client.Emit(DefaultEvent, map[string]any{"a": -1}))

		ack := h.result(t)
		assert.Equal(t, false, ack["ok"])
		assert.Equal(t, "InvalidValue", ack["kind"])
		assert.NotEmpty(t, ack["error"])

		a, err := st.Get("a")
		require.NoError(t, err)
		assert.True(t, a.Equals(cty.NumberIntVal(7)).True())
	})
}

func TestConnect_ConnectError(t *testing.T) {
	h := newHub(t)
	h.server.Use(func(_ *sio.Socket, next func(*sio.ExtendedError)) {
		next(sio.NewExtendedError("feed not allowed", map[string]any{"code": 403}))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := Connect(ctx, Config{URL: h.URL}, newStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed connection failed")
	assert.Contains(t, err.Error(), "feed not allowed")
}

// silentListener accepts connections and never answers the handshake.
func silentListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return "http://" + ln.Addr().String() + "/socket.io/"
}

func TestConnect_Timeout(t *testing.T) {
	prev := connectTimeout
	connectTimeout = 200 * time.Millisecond
	t.Cleanup(func() { connectTimeout = prev })

	_, err := Connect(context.Background(), Config{URL: silentListener(t)}, newStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out after 200ms waiting for feed connection")
}

func TestConnect_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := Connect(ctx, Config{URL: silentListener(t)}, newStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled while waiting for feed connection")
}
