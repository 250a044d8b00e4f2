package wordgo

import (
	"context"
	"time"

	"golang.org/x/exp/slices"
)

const DefaultScoreLimit float64 = 100

// Game is the authoritative state of one room as a single replica sees
// it. A Game value is owned by exactly one actor; cross-replica
// convergence happens by exchanging snapshots and whole boards, never by
// sharing a Game.
type Game struct {
	Topic        string               `json:"topic"`
	Players      []PlayerID           `json:"players"` // turn order
	Colors       map[PlayerID]string  `json:"colors"`
	CurrentTurn  PlayerID             `json:"current_turn"`
	Board        *Board               `json:"board"`
	AIEnabled    bool                 `json:"ai_enabled"`
	AIDifficulty Difficulty           `json:"ai_difficulty"`
	ScoreLimit   float64              `json:"score_limit"`
	Deadline     time.Time            `json:"deadline,omitempty"` // zero means untimed
	Finished     bool                 `json:"finished"`
	Winner       PlayerID             `json:"winner,omitempty"`
}

func NewGame(topic string, board *Board) *Game {
	return &Game{
		Topic:        topic,
		Board:        board,
		Colors:       make(map[PlayerID]string),
		AIDifficulty: DifficultyMedium,
		ScoreLimit:   DefaultScoreLimit,
	}
}

// EnableAI adds the reserved bot player to the rotation.
func (g *Game) EnableAI(difficulty Difficulty) {
	g.AIEnabled = true
	g.AIDifficulty = difficulty
	g.AddPlayer(AIPlayerID)
}

// AddPlayer appends a player to the turn order if not already present
// and assigns a color. The first player to join takes the first turn.
func (g *Game) AddPlayer(id PlayerID) {
	if slices.Contains(g.Players, id) {
		return
	}
	g.Players = append(g.Players, id)
	g.Colors[id] = playerPalette[(len(g.Players)-1)%len(playerPalette)]
	if g.CurrentTurn == "" {
		g.CurrentTurn = id
	}
}

// MergeRoster unions another roster into this one, preserving existing
// order and appending unseen players in the order given.
func (g *Game) MergeRoster(players []PlayerID, colors map[PlayerID]string) {
	for _, id := range players {
		g.AddPlayer(id)
		if color, ok := colors[id]; ok && color != "" {
			g.Colors[id] = color
		}
	}
}

// NextTurn returns the player after the current one in rotation.
func (g *Game) NextTurn() PlayerID {
	if len(g.Players) == 0 {
		return ""
	}
	i := slices.Index(g.Players, g.CurrentTurn)
	return g.Players[(i+1)%len(g.Players)]
}

// ApplyMove validates and places a piece, then advances the turn. On any
// validation error the game is unchanged.
func (g *Game) ApplyMove(piece Piece) error {
	if err := g.Board.PlacePiece(piece.Position, piece.Owner, piece.Word); err != nil {
		return err
	}
	g.CurrentTurn = g.NextTurn()
	return nil
}

// ReplaceBoard swaps in a board received from a peer replica. The value
// is adopted as-is; derived group and score state is recomputed lazily.
func (g *Game) ReplaceBoard(board *Board, nextTurn PlayerID) {
	g.Board = board
	g.CurrentTurn = nextTurn
}

// Reset returns the game to a fresh board, keeping the roster, colors,
// AI settings and score limit.
func (g *Game) Reset() {
	g.Board = NewBoardWithBonuses(g.Board.Width, g.Board.Height, DefaultBonusCount)
	g.Finished = false
	g.Winner = ""
	g.Deadline = time.Time{}
	if len(g.Players) > 0 {
		g.CurrentTurn = g.Players[0]
	}
}

// Scores computes every rostered player's total through the scorer.
// Players without pieces score zero.
func (g *Game) Scores(ctx context.Context, scorer *Scorer) map[PlayerID]float64 {
	scores := scorer.BoardScores(ctx, g.Board)
	for _, id := range g.Players {
		if _, ok := scores[id]; !ok {
			scores[id] = 0
		}
	}
	return scores
}

// Leader returns the unique top scorer, or "" when the lead is shared.
func Leader(scores map[PlayerID]float64) PlayerID {
	var leader PlayerID
	best, tied := 0.0, false
	for id, score := range scores {
		switch {
		case leader == "" || score > best:
			leader, best, tied = id, score, false
		case score == best:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return leader
}

// CheckScoreLimit ends the game when any player has reached the score
// limit. A shared lead still ends the game, with no winner declared.
func (g *Game) CheckScoreLimit(scores map[PlayerID]float64) bool {
	if g.Finished {
		return true
	}
	reached := false
	for _, score := range scores {
		if score >= g.ScoreLimit {
			reached = true
			break
		}
	}
	if !reached {
		return false
	}
	g.Finished = true
	g.Winner = Leader(scores)
	return true
}

// FinishAtDeadline ends the game at time expiry, applying the same
// unique-max winner rule to the final scores.
func (g *Game) FinishAtDeadline(scores map[PlayerID]float64) {
	if g.Finished {
		return
	}
	g.Finished = true
	g.Winner = Leader(scores)
}
