package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/TomBers/wordgo/pkg/room"
	"github.com/TomBers/wordgo/pkg/wordgo"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the websocket envelope in both directions.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// clientMessage is the union of commands a client may send.
type clientMessage struct {
	Type  string `json:"type"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Word  string `json:"word"`
	Level string `json:"level"`
}

// handleWebSocket upgrades the connection and runs a replica for it.
// Query params: name (display id, defaults to a fresh uuid), ai=1 to
// enable the bot, difficulty=easy|medium|hard.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	topic := mux.Vars(r)["roomId"]
	q := r.URL.Query()
	player := wordgo.PlayerID(q.Get("name"))
	if player == "" {
		player = wordgo.NewPlayerID()
	}

	replica := room.New(room.Config{
		Topic:         topic,
		Player:        player,
		Bus:           s.bus,
		Scorer:        s.scorer,
		Vocab:         s.vocab,
		Logger:        s.log,
		BoardWidth:    s.cfg.BoardWidth,
		BoardHeight:   s.cfg.BoardHeight,
		AIEnabled:     q.Get("ai") == "1",
		AIDifficulty:  wordgo.Difficulty(q.Get("difficulty")),
		ScoreLimit:    s.cfg.ScoreLimit,
		MatchDuration: s.cfg.MatchDuration,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go replica.Run(ctx)
	go s.writePump(conn, replica)

	s.log.Info().Str("room", topic).Str("player", string(player)).Msg("client connected")
	s.readPump(conn, replica)
	s.log.Info().Str("room", topic).Str("player", string(player)).Msg("client disconnected")
}

// readPump decodes client commands and posts them to the replica. It
// returns when the connection drops, which tears the replica down.
func (s *Server) readPump(conn *websocket.Conn, replica *room.Replica) {
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "place":
			replica.Place(wordgo.Position{X: msg.X, Y: msg.Y}, msg.Word)
		case "reset":
			replica.Reset()
		case "ai_difficulty":
			replica.SetAIDifficulty(wordgo.Difficulty(msg.Level))
		default:
			s.log.Debug().Str("type", msg.Type).Msg("unknown client message")
		}
	}
}

// writePump is the single writer for the connection, so no write lock
// is needed. It drains the replica's update stream until it closes.
func (s *Server) writePump(conn *websocket.Conn, replica *room.Replica) {
	for update := range replica.Updates() {
		kind := "update"
		if update.GameOver != nil {
			kind = "game_over"
		}
		if err := conn.WriteJSON(Message[room.Update]{Type: kind, Data: update}); err != nil {
			return
		}
	}
}
