package wsrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestRouter(t *testing.T, router *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		router.ServeConn(r.Context(), NewConn(conn))
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestTypedDispatch(t *testing.T) {
	type greetPayload struct {
		Name string `json:"name"`
	}

	router := New()
	router.Handle("greet", func(ctx context.Context, conn *Conn, payload greetPayload) error {
		assert.Equal(t, "greet", GetMessageTypeFromCtx(ctx))
		return conn.WriteJSON(map[string]string{"greeting": "hello " + payload.Name})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "greet",
		"payload": map[string]string{"name": "ada"},
	}))

	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "hello ada", reply["greeting"])
}

func TestScalarPayload(t *testing.T) {
	router := New()
	router.Handle("echo", func(ctx context.Context, conn *Conn, payload int64) error {
		return conn.WriteJSON(map[string]int64{"echo": payload})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "echo", "payload": 1000}))

	var reply map[string]int64
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, int64(1000), reply["echo"])
}

func TestUnknownMessageType(t *testing.T) {
	conn := dialTestRouter(t, New())

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "nope"}))

	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "unknown message type", reply["error"])
}

func TestMiddlewareSeesHandlerError(t *testing.T) {
	var observed atomic.Int32

	router := New()
	router.Use(func(next HandlerFunc[any]) HandlerFunc[any] {
		return func(ctx context.Context, conn *Conn, payload any) error {
			err := next(ctx, conn, payload)
			if err != nil {
				observed.Add(1)
			}
			return err
		}
	})
	router.Handle("fail", func(ctx context.Context, conn *Conn, payload struct{}) error {
		return assert.AnError
	})
	router.Handle("ok", func(ctx context.Context, conn *Conn, payload struct{}) error {
		return conn.WriteJSON(map[string]bool{"ok": true})
	})

	conn := dialTestRouter(t, router)

	// the loop keeps serving after a handler error
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "fail"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ok"}))

	var reply map[string]bool
	require.NoError(t, conn.ReadJSON(&reply))
	assert.True(t, reply["ok"])

	assert.Eventually(t, func() bool { return observed.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestConcurrentWritesAreSerialized(t *testing.T) {
	const writers = 16

	router := New()
	router.Handle("burst", func(ctx context.Context, conn *Conn, payload struct{}) error {
		// fan out from many goroutines at once, the way room broadcasts
		// arrive from other members' dispatch loops
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				assert.NoError(t, conn.WriteJSON(map[string]int{"n": n}))
			}(i)
		}
		wg.Wait()
		return nil
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "burst"}))

	seen := make(map[int]bool)
	for i := 0; i < writers; i++ {
		var reply map[string]int
		require.NoError(t, conn.ReadJSON(&reply))
		seen[reply["n"]] = true
	}
	assert.Len(t, seen, writers, "every frame must arrive intact")
}

func TestHandleRejectsBadSignature(t *testing.T) {
	assert.Panics(t, func() { New().Handle("bad", func() {}) })
	assert.Panics(t, func() { New().Handle("bad", "not a func") })
}
