// Package ws pushes live run updates to detail-page viewers. Each connection
// watches exactly one run: the server polls the viewer snapshot through a
// livefeed controller and writes it down the socket until the run reaches a
// terminal status or the client goes away.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/livefeed"
)

// RunSource is the viewer surface the watch server needs.
type RunSource interface {
	RunDetail(ctx context.Context, id string) (*viewer.RunDetail, error)
	RunDetailByCode(ctx context.Context, code string) (*viewer.RunDetail, error)
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	runs     RunSource
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewServer(runs RunSource, interval time.Duration) *Server {
	return &Server{
		runs:     runs,
		interval: interval,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// HandleRunWatch upgrades GET /ws/runs/{run_code} and streams snapshots.
func (s *Server) HandleRunWatch(w http.ResponseWriter, r *http.Request) {
	runCode := chi.URLParam(r, "run_code")
	d, err := s.runs.RunDetailByCode(r.Context(), runCode)
	if err != nil {
		if errors.Is(err, viewer.ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 8)}
	go client.writeLoop()

	// The request context dies when the handler returns, so the watch gets
	// its own context cancelled by the read loop.
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context, id string) (*viewer.RunDetail, error) {
		snap, err := s.runs.RunDetail(ctx, id)
		if errors.Is(err, viewer.ErrRunNotFound) {
			client.push(ErrorMessage{
				Type:            "error",
				ProtocolVersion: protocolVersion,
				Error:           "run not found",
			})
		}
		return snap, err
	}
	controller := livefeed.NewController(fetch, s.interval)
	controller.Watch(ctx, d.Run.ID, func(snap *viewer.RunDetail) {
		client.push(SnapshotMessage{
			Type:            "snapshot",
			ProtocolVersion: protocolVersion,
			RunCode:         runCode,
			Detail:          snap,
		})
	})

	s.readLoop(client)
	cancel()
	controller.Stop()
	close(client.send)
}

// readLoop discards inbound frames; its only job is noticing disconnects.
func (s *Server) readLoop(c *Client) {
	defer func() { _ = c.conn.Close() }()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop() {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// push drops the frame when the client cannot keep up; the next poll will
// carry a fresher snapshot anyway.
func (c *Client) push(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("ws marshal failed")
		return
	}
	select {
	case c.send <- b:
	default:
	}
}
