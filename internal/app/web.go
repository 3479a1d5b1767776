package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsPushInterval is how often a websocket session pushes state.
const wsPushInterval = 100 * time.Millisecond

// WSMessage is an action sent by a websocket client.
type WSMessage struct {
	Action string `json:"action"` // snap, activate, deactivate, rapid, tilt
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
}

// WSResponse is pushed to websocket clients.
type WSResponse struct {
	Type    string      `json:"type"` // state, error
	State   interface{} `json:"state,omitempty"`
	Message string      `json:"message,omitempty"`
}

func newWebHandler(svc *pointerService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.ctrl.Snapshot())
	})
	mux.HandleFunc("/api/panel", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.panel.Snapshot())
	})
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.ctrl.Recent())
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handlePointerWS(svc, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// handlePointerWS streams controller state to the client and applies the
// actions it sends.
func handlePointerWS(svc *pointerService, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	actions := make(chan WSMessage)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(actions)
		for {
			var msg WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("web: websocket read error: %v", err)
				}
				return
			}
			select {
			case actions <- msg:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPushInterval)
	defer ticker.Stop()

	for {
		var resp WSResponse
		select {
		case msg, ok := <-actions:
			if !ok {
				return
			}
			if err := applyAction(svc.cmds, msg); err != nil {
				resp = WSResponse{Type: "error", Message: err.Error()}
			} else {
				resp = WSResponse{Type: "state", State: svc.ctrl.Snapshot()}
			}
		case <-ticker.C:
			resp = WSResponse{Type: "state", State: svc.ctrl.Snapshot()}
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("web: websocket write error: %v", err)
			return
		}
	}
}

func applyAction(cmds pointerCommands, msg WSMessage) error {
	switch msg.Action {
	case "snap":
		cmds.OnSnap()
	case "activate":
		cmds.OnActivation(true)
	case "deactivate":
		cmds.OnActivation(false)
	case "rapid":
		cmds.OnRapid()
	case "tilt":
		cmds.OnTilt(msg.X, msg.Y)
	default:
		return fmt.Errorf("unknown action %q", msg.Action)
	}
	return nil
}

// serveWeb serves h on port until ctx is cancelled.
func serveWeb(ctx context.Context, port int, h http.Handler) error {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: h}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("web server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
