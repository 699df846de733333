package controller

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchalong/server/internal/repository/connection/inmemory"
	roomRedis "github.com/watchalong/server/internal/repository/room/redis"
	"github.com/watchalong/server/internal/service/room"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	roomRepo := roomRedis.NewRepo(rc, slog.Default(), time.Hour)
	connRepo := inmemory.NewRepo(slog.Default())
	roomService := room.NewService(roomRepo, connRepo, "test-secret", slog.Default())

	srv := httptest.NewServer(NewController(roomService, slog.Default()).GetMux())
	t.Cleanup(srv.Close)

	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func sendFrame(t *testing.T, conn *websocket.Conn, messageType string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": messageType, "payload": payload}))
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	var f frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&f))

	return f
}

func joinOverWire(t *testing.T, conn *websocket.Conn, roomId, nickname string, isHost bool) map[string]json.RawMessage {
	t.Helper()

	sendFrame(t, conn, "join-room", map[string]any{
		"roomId":   roomId,
		"nickname": nickname,
		"isHost":   isHost,
	})

	f := readFrame(t, conn)
	require.Equal(t, "roomState", f.Type)

	var state map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(f.Payload, &state))

	return state
}

// decoded with independently written tags so that a typo in the production
// json tags shows up as a zero field
type syncPlaybackFrame struct {
	Playing         bool    `json:"playing"`
	CurrentTime     float64 `json:"currentTime"`
	PlaybackRate    float64 `json:"playbackRate"`
	ServerTimestamp int64   `json:"serverTimestamp"`
}

func readSyncPlayback(t *testing.T, conn *websocket.Conn) syncPlaybackFrame {
	t.Helper()

	f := readFrame(t, conn)
	require.Equal(t, "sync-playback", f.Type)

	var sync syncPlaybackFrame
	require.NoError(t, json.Unmarshal(f.Payload, &sync))

	return sync
}

func TestWireHostActionOrdering(t *testing.T) {
	srv := newTestServer(t)

	host := dialWS(t, srv)
	hostState := joinOverWire(t, host, "room1", "alice", true)
	assert.Contains(t, hostState, "hostToken")
	assert.Contains(t, hostState, "playbackState")
	assert.Contains(t, hostState, "annotations")
	assert.Contains(t, hostState, "canvasJson")
	assert.Contains(t, hostState, "videoUrl")
	assert.Contains(t, hostState, "subtitleUrl")

	var playback map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(hostState["playbackState"], &playback))
	assert.Contains(t, playback, "playing")
	assert.Contains(t, playback, "currentTime")
	assert.Contains(t, playback, "playbackRate")
	assert.Contains(t, playback, "lastUpdateTimestamp")

	viewer1 := dialWS(t, srv)
	viewer1State := joinOverWire(t, viewer1, "room1", "bob", false)
	assert.NotContains(t, viewer1State, "hostToken")

	viewer2 := dialWS(t, srv)
	joinOverWire(t, viewer2, "room1", "carol", false)

	// a burst of host actions and heartbeats, written back to back; the
	// host's read loop dispatches them one at a time
	sendFrame(t, host, "host-action", map[string]any{"roomId": "room1", "action": "play", "currentTime": 1, "playbackRate": 1})
	sendFrame(t, host, "host-action", map[string]any{"roomId": "room1", "action": "pause", "currentTime": 2, "playbackRate": 1})
	sendFrame(t, host, "host-action", map[string]any{"roomId": "room1", "action": "play", "currentTime": 3, "playbackRate": 1})
	sendFrame(t, host, "timeUpdate", map[string]any{"roomId": "room1", "time": 4, "duration": 7200, "isPlaying": true, "playbackRate": 1})
	sendFrame(t, host, "host-action", map[string]any{"roomId": "room1", "action": "pause", "currentTime": 5, "playbackRate": 1})

	wantTimes := []float64{1, 2, 3, 4, 5}
	wantPlaying := []bool{true, false, true, true, false}

	for _, viewer := range []*websocket.Conn{viewer1, viewer2} {
		var lastStamp int64
		for i := range wantTimes {
			sync := readSyncPlayback(t, viewer)
			assert.Equal(t, wantTimes[i], sync.CurrentTime, "frame %d out of order", i)
			assert.Equal(t, wantPlaying[i], sync.Playing, "frame %d playing flag", i)
			assert.GreaterOrEqual(t, sync.ServerTimestamp, lastStamp)
			lastStamp = sync.ServerTimestamp
		}
	}

	// a viewer seek is echoed to everyone, host included
	sendFrame(t, viewer1, "seek", map[string]any{"roomId": "room1", "time": 42})
	for _, conn := range []*websocket.Conn{host, viewer1, viewer2} {
		sync := readSyncPlayback(t, conn)
		assert.Equal(t, float64(42), sync.CurrentTime)
		assert.False(t, sync.Playing, "seek must keep the paused state")
	}
}

func TestWireAnnotationsAndCanvas(t *testing.T) {
	srv := newTestServer(t)

	host := dialWS(t, srv)
	joinOverWire(t, host, "room1", "alice", true)
	viewer := dialWS(t, srv)
	joinOverWire(t, viewer, "room1", "bob", false)

	// comment from the viewer reaches everyone, sender included
	sendFrame(t, viewer, "add-annotation", map[string]any{
		"roomId": "room1",
		"annotation": map[string]any{
			"kind":      "comment",
			"id":        "c1",
			"timestamp": 12.5,
			"author":    "bob",
			"text":      "nice shot",
		},
	})
	for _, conn := range []*websocket.Conn{host, viewer} {
		f := readFrame(t, conn)
		require.Equal(t, "add-annotation", f.Type)

		var comment map[string]any
		require.NoError(t, json.Unmarshal(f.Payload, &comment))
		assert.Equal(t, "c1", comment["id"])
		assert.Equal(t, "nice shot", comment["text"])
	}

	// a viewer drawing is dropped without a canvas-update; a ping/pong on
	// the same connection proves the server finished handling it
	sendFrame(t, viewer, "add-annotation", map[string]any{
		"roomId": "room1",
		"annotation": map[string]any{
			"kind": "drawing",
			"id":   "d1",
			"data": `{"shapes":["forged"]}`,
		},
	})
	sendFrame(t, viewer, "ping", 1000)

	f := readFrame(t, viewer)
	require.Equal(t, "pong", f.Type, "the rejected drawing must produce no frame")

	var pong map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(f.Payload, &pong))
	assert.Contains(t, pong, "serverTime")
	assert.JSONEq(t, "1000", string(pong["clientTime"]))

	// the next canvas frame both members see comes from the host's clear,
	// never from the forged drawing
	sendFrame(t, host, "clear-canvas", map[string]any{"roomId": "room1"})
	for _, conn := range []*websocket.Conn{host, viewer} {
		f := readFrame(t, conn)
		require.Equal(t, "canvas-update", f.Type)
		assert.JSONEq(t, `{"canvasJson": null}`, string(f.Payload))
	}

	// host drawing replaces the canvas for everyone
	sendFrame(t, host, "add-annotation", map[string]any{
		"roomId": "room1",
		"annotation": map[string]any{
			"kind": "drawing",
			"id":   "d2",
			"data": `{"shapes":[{"kind":"arrow"}]}`,
		},
	})
	for _, conn := range []*websocket.Conn{host, viewer} {
		f := readFrame(t, conn)
		require.Equal(t, "canvas-update", f.Type)

		var update struct {
			CanvasJson *string `json:"canvasJson"`
		}
		require.NoError(t, json.Unmarshal(f.Payload, &update))
		require.NotNil(t, update.CanvasJson)
		assert.JSONEq(t, `{"shapes":[{"kind":"arrow"}]}`, *update.CanvasJson)
	}

	// deletion fans out the removed id
	sendFrame(t, host, "delete-annotation", map[string]any{"roomId": "room1", "annotationId": "c1"})
	for _, conn := range []*websocket.Conn{host, viewer} {
		f := readFrame(t, conn)
		require.Equal(t, "delete-annotation", f.Type)
		assert.JSONEq(t, `"c1"`, string(f.Payload))
	}
}
