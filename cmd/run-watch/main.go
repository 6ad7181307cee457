// run-watch tails a run from the terminal: it connects to the viewer's watch
// socket and prints a line per snapshot until the run finishes.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/gorilla/websocket"
)

type snapshot struct {
	Type    string `json:"type"`
	RunCode string `json:"run_code"`
	Detail  struct {
		Run struct {
			Status     string `json:"status"`
			FinalAnte  int    `json:"final_ante"`
			FinalScore *int64 `json:"final_score"`
			Won        bool   `json:"won"`
		} `json:"run"`
		Progress string `json:"progress_display"`
		Timeline []struct {
			Boundary *struct {
				Label string `json:"label"`
			} `json:"boundary"`
		} `json:"timeline"`
	} `json:"detail"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <run_code>", os.Args[0])
	}
	runCode := os.Args[1]
	base := getenv("VIEWER_WS_URL", "ws://localhost:8080")

	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/runs/"+runCode, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var snap snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		if snap.Type != "snapshot" {
			continue
		}
		segment := ""
		for i := len(snap.Detail.Timeline) - 1; i >= 0; i-- {
			if b := snap.Detail.Timeline[i].Boundary; b != nil {
				segment = b.Label
				break
			}
		}
		score := "-"
		if snap.Detail.Run.FinalScore != nil {
			score = fmt.Sprintf("%d", *snap.Detail.Run.FinalScore)
		}
		fmt.Printf("[%s] %s  segment=%s  score=%s  events=%d\n",
			snap.RunCode, snap.Detail.Progress, segment, score, len(snap.Detail.Timeline))
		if snap.Detail.Run.Status != "running" {
			result := "lost"
			if snap.Detail.Run.Won {
				result = "won"
			}
			fmt.Printf("run finished: %s at ante %d\n", result, snap.Detail.Run.FinalAnte)
			return
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
