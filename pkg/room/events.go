package room

import (
	"time"

	"github.com/TomBers/wordgo/pkg/wordgo"
)

// Event is a typed room-protocol message. All events are broadcast to
// the room topic except State, which is a point-to-point reply to the
// requester.
type Event interface {
	Kind() string
}

// PlayerJoined announces a player and carries the sender's merged
// roster so peers converge on one turn order and color assignment.
type PlayerJoined struct {
	Player  wordgo.PlayerID
	Players []wordgo.PlayerID
	Colors  map[wordgo.PlayerID]string
}

func (PlayerJoined) Kind() string { return "player_joined" }

// RequestState asks any present replica for a full snapshot. The reply
// goes straight to ReplyTo, not to the topic.
type RequestState struct {
	ReplyTo *Subscriber
}

func (RequestState) Kind() string { return "request_state" }

// State is the snapshot reply. A requester accepts only the first one
// it receives.
type State struct {
	Snapshot Snapshot
}

func (State) Kind() string { return "state" }

// Move carries the full resulting board and whose turn is next.
// Receivers replace their board wholesale; there is no incremental
// patching to merge or reorder.
type Move struct {
	Board    *wordgo.Board
	NextTurn wordgo.PlayerID
}

func (Move) Kind() string { return "move" }

// Reset starts a fresh board for the room.
type Reset struct {
	Board    *wordgo.Board
	NextTurn wordgo.PlayerID
	Deadline time.Time
}

func (Reset) Kind() string { return "reset" }

// AIDifficultyChanged retunes the room's bot.
type AIDifficultyChanged struct {
	Level wordgo.Difficulty
}

func (AIDifficultyChanged) Kind() string { return "ai_difficulty" }

// GameOver declares the game finished. Winner is empty when the lead
// was shared at the end.
type GameOver struct {
	Reason      string                      `json:"reason"`
	Winner      wordgo.PlayerID             `json:"winner,omitempty"`
	FinalScores map[wordgo.PlayerID]float64 `json:"final_scores"`
}

func (GameOver) Kind() string { return "game_over" }

const (
	ReasonScoreLimit = "score_limit"
	ReasonTimeLimit  = "time_limit"
)

// Snapshot is the full authoritative state handed to a joining replica.
type Snapshot struct {
	Board        *wordgo.Board              `json:"board"`
	Players      []wordgo.PlayerID          `json:"players"`
	Colors       map[wordgo.PlayerID]string `json:"colors"`
	CurrentTurn  wordgo.PlayerID            `json:"current_turn"`
	AIEnabled    bool                       `json:"ai_enabled"`
	AIDifficulty wordgo.Difficulty          `json:"ai_difficulty"`
	ScoreLimit   float64                    `json:"score_limit"`
	Deadline     time.Time                  `json:"deadline,omitempty"`
	Finished     bool                       `json:"finished"`
	Winner       wordgo.PlayerID            `json:"winner,omitempty"`
}
