package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"svw.info/blockpuzzle/internal/domain"
	"svw.info/blockpuzzle/internal/session"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsState struct {
	session.View
	Found      *bool `json:"found,omitempty"`
	Nodes      int   `json:"nodes,omitempty"`
	DurationMs int64 `json:"durationMs,omitempty"`
}

type wsToggle struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type wsAddPiece struct {
	Cells []domain.CellCoord `json:"cells"`
}

type wsRemovePiece struct {
	Index int `json:"index"`
}

type wsRestore struct {
	Board  domain.BoardState `json:"board"`
	Pieces []*domain.Piece   `json:"pieces"`
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func encode(typ string, payload any) []byte {
	return mustMarshal(wsMessage{Type: typ, Payload: mustMarshal(payload)})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// serveSession runs one live game per connection. Every client message is
// answered with either a "state" or an "error" message.
func (h *Handler) serveSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	sess := h.NewSession()
	send := make(chan []byte, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := writeWSWithHeartbeat(conn, send); err != nil {
			log.Debug().Err(err).Msg("ws-write")
			conn.Close()
		}
	}()
	defer func() {
		close(send)
		<-done
		conn.Close()
	}()
	push := func(m []byte) bool {
		select {
		case send <- m:
			return true
		case <-done:
			return false
		}
	}

	push(encode("state", wsState{View: sess.View()}))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if !push(encode("error", map[string]string{"message": "invalid JSON: " + err.Error()})) {
				return
			}
			continue
		}
		if !push(h.dispatch(r, sess, msg)) {
			return
		}
	}
}

func (h *Handler) dispatch(r *http.Request, sess *session.Session, msg wsMessage) []byte {
	fail := func(err error) []byte { return encode("error", map[string]string{"message": err.Error()}) }
	out := wsState{}

	switch msg.Type {
	case "state", "ping":
	case "toggle":
		var p wsToggle
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fail(err)
		}
		if err := sess.ToggleCell(p.Row, p.Col); err != nil {
			return fail(err)
		}
	case "add_piece":
		var p wsAddPiece
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fail(err)
		}
		if _, err := sess.AddPiece(p.Cells); err != nil {
			return fail(err)
		}
	case "remove_piece":
		var p wsRemovePiece
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fail(err)
		}
		if err := sess.RemovePiece(p.Index); err != nil {
			return fail(err)
		}
	case "restore":
		var p wsRestore
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fail(err)
		}
		if err := sess.Restore(p.Board, p.Pieces); err != nil {
			return fail(err)
		}
	case "solve":
		ctx, cancel := h.searchContext(r.Context())
		found, st, err := sess.LoadBestSequence(ctx)
		cancel()
		if err != nil {
			return fail(err)
		}
		out.Found = &found
		out.Nodes = st.Nodes
		out.DurationMs = st.Duration.Milliseconds()
	case "place":
		if _, err := sess.PlaceSelected(); err != nil {
			return fail(err)
		}
	case "reset":
		sess.Reset()
	default:
		return encode("error", map[string]string{"message": "unknown message type " + msg.Type})
	}
	out.View = sess.View()
	return encode("state", out)
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
