package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/store"
)

type fakeRuns struct {
	status   atomic.Value // string
	fetches  atomic.Int64
	vanished atomic.Bool
}

func newFakeRuns(status string) *fakeRuns {
	f := &fakeRuns{}
	f.status.Store(status)
	return f
}

func (f *fakeRuns) detail() *viewer.RunDetail {
	return &viewer.RunDetail{Run: store.Run{ID: "r1", RunCode: "RUN1", Status: f.status.Load().(string)}}
}

func (f *fakeRuns) RunDetail(ctx context.Context, id string) (*viewer.RunDetail, error) {
	f.fetches.Add(1)
	if id != "r1" || f.vanished.Load() {
		return nil, viewer.ErrRunNotFound
	}
	return f.detail(), nil
}

func (f *fakeRuns) RunDetailByCode(ctx context.Context, code string) (*viewer.RunDetail, error) {
	if code != "RUN1" {
		return nil, viewer.ErrRunNotFound
	}
	return f.detail(), nil
}

func watchServer(t *testing.T, runs RunSource) (*httptest.Server, string) {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/ws/runs/{run_code}", NewServer(runs, 10*time.Millisecond).HandleRunWatch)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRunWatchStreamsSnapshots(t *testing.T) {
	runs := newFakeRuns("running")
	_, wsURL := watchServer(t, runs)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/runs/RUN1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		var snap SnapshotMessage
		if err := json.Unmarshal(msg, &snap); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if snap.Type != "snapshot" || snap.RunCode != "RUN1" {
			t.Fatalf("unexpected message: %+v", snap)
		}
		if snap.Detail == nil || snap.Detail.Run.Status != "running" {
			t.Fatalf("unexpected detail: %+v", snap.Detail)
		}
	}
}

func TestRunWatchStopsAfterTerminalSnapshot(t *testing.T) {
	runs := newFakeRuns("running")
	_, wsURL := watchServer(t, runs)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/runs/RUN1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("first read: %v", err)
	}

	runs.status.Store("completed")
	sawTerminal := false
	for !sawTerminal {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var snap SnapshotMessage
		if err := json.Unmarshal(msg, &snap); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		sawTerminal = snap.Detail.Run.Status == "completed"
	}

	// Polling stops once a terminal snapshot went out.
	time.Sleep(50 * time.Millisecond)
	before := runs.fetches.Load()
	time.Sleep(50 * time.Millisecond)
	if after := runs.fetches.Load(); after != before {
		t.Fatalf("poller still fetching after terminal status: %d -> %d", before, after)
	}
}

func TestRunWatchReportsVanishedRun(t *testing.T) {
	runs := newFakeRuns("running")
	runs.vanished.Store(true)
	_, wsURL := watchServer(t, runs)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/runs/RUN1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var em ErrorMessage
	if err := json.Unmarshal(msg, &em); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if em.Type != "error" || em.Error != "run not found" {
		t.Fatalf("unexpected message: %+v", em)
	}
}

func TestRunWatchRejectsUnknownRun(t *testing.T) {
	_, wsURL := watchServer(t, newFakeRuns("running"))
	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/ws/runs/NOPE", nil)
	if err == nil {
		t.Fatal("expected handshake failure for unknown run")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}
