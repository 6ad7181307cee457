package ws

import "balatro-run-viewer/internal/app/viewer"

const protocolVersion = "1"

// SnapshotMessage carries one refreshed run detail to a watching client.
type SnapshotMessage struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	RunCode         string            `json:"run_code"`
	Detail          *viewer.RunDetail `json:"detail"`
}

// ErrorMessage is sent before the stream ends when the watched run
// disappears mid-watch.
type ErrorMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Error           string `json:"error"`
}
