package stream

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"beeclust/internal/sims/beeclust"
)

func newSim(t *testing.T) *beeclust.Simulation {
	t.Helper()
	sim, err := beeclust.New([][]int{
		{2, 5, 5, 0},
		{0, 1, 0, 3},
	}, beeclust.DefaultConfig())
	require.NoError(t, err)
	return sim
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(NewServer(nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestStateServesLatestFrame(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	sim := newSim(t)
	sim.Step()
	require.NoError(t, srv.Publish(FrameOf("run-1", sim)))

	resp, err = http.Get(ts.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var f Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	require.Equal(t, "run-1", f.RunID)
	require.Equal(t, uint64(1), f.Stats.Tick)
	require.Equal(t, sim.Grid(), f.Grid)
}

func TestHeatEncodesWallsAsNull(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	require.NoError(t, srv.SetHeatField([][]float64{{40, math.NaN(), 22.5}}))

	resp, err := http.Get(ts.URL + "/heat")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `[[40, null, 22.5]]`, string(body))
}

func TestWebsocketBroadcast(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	sim := newSim(t)
	require.NoError(t, srv.Publish(FrameOf("run-2", sim)))

	a := dial(t, ts)
	b := dial(t, ts)
	require.Equal(t, uint64(0), readFrame(t, a).Stats.Tick, "new clients receive the latest frame")
	require.Equal(t, uint64(0), readFrame(t, b).Stats.Tick)
	require.Equal(t, 2, srv.Clients())

	sim.Step()
	require.NoError(t, srv.Publish(FrameOf("run-2", sim)))
	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		require.Equal(t, uint64(1), f.Stats.Tick)
		require.Equal(t, sim.Grid(), f.Grid)
		require.Equal(t, sim.Stats().Agents, f.Stats.Agents)
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	require.NoError(t, srv.Publish(FrameOf("run-3", newSim(t))))
	conn := dial(t, ts)
	readFrame(t, conn)

	srv.Close()
	require.Equal(t, 0, srv.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
