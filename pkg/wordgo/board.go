package wordgo

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	DefaultBoardWidth  int = 10
	DefaultBoardHeight int = 10

	// MaxWordLength bounds player input before it ever reaches the board.
	MaxWordLength int = 24

	// DefaultBonusCount is the number of bonus tiles sprinkled on a new board.
	DefaultBonusCount int = 4
)

var (
	ErrOutOfBounds      = errors.New("position is out of bounds")
	ErrPositionOccupied = errors.New("a piece already exists on that cell")
	ErrEmptyWord        = errors.New("word is empty")
	ErrWordTooLong      = errors.New("word is too long")
	ErrDuplicateWord    = errors.New("word is already on the board")
)

// PlayerID identifies a player within a game. It is opaque to the engine;
// human IDs are minted at the server edge, and the single bot player is
// always AIPlayerID.
type PlayerID string

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbors returns the four orthogonally adjacent positions, without
// bounds checking.
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		{p.X, p.Y - 1},
		{p.X - 1, p.Y},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
	}
}

// ManhattanDistance returns the L1 distance between two positions.
func (p Position) ManhattanDistance(o Position) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Piece is a single placed word. Immutable once created; a board never
// holds two pieces with the same position.
type Piece struct {
	Position
	Owner PlayerID `json:"owner"`
	Word  string   `json:"word"`
}

// BonusTile marks a cell with a score multiplier. Bonuses do not block
// placement and are not yet read by the score formula; they are carried
// for display and as a scoring extension point.
type BonusTile struct {
	Position
	Multiplier int `json:"multiplier"`
}

// Board is an append-only collection of pieces on a width x height grid.
// A board value is owned by a single replica at a time; state replacement
// (never cell-by-cell mutation) is how boards travel between replicas.
type Board struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Pieces  []Piece     `json:"pieces"`
	Bonuses []BonusTile `json:"bonuses"`
}

func NewBoard(width, height int) *Board {
	if width <= 0 {
		width = DefaultBoardWidth
	}
	if height <= 0 {
		height = DefaultBoardHeight
	}
	return &Board{Width: width, Height: height}
}

// NewBoardWithBonuses creates an empty board and scatters count bonus
// tiles (multiplier 2 or 4) over distinct cells.
func NewBoardWithBonuses(width, height, count int) *Board {
	b := NewBoard(width, height)
	if count > b.Width*b.Height {
		count = b.Width * b.Height
	}
	taken := make(map[Position]bool, count)
	for len(b.Bonuses) < count {
		// # nosec
		pos := Position{X: rand.Intn(b.Width), Y: rand.Intn(b.Height)}
		if taken[pos] {
			continue
		}
		taken[pos] = true
		multiplier := 2
		// # nosec
		if rand.Intn(2) == 1 {
			multiplier = 4
		}
		b.Bonuses = append(b.Bonuses, BonusTile{Position: pos, Multiplier: multiplier})
	}
	return b
}

func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// PieceAt returns the piece on the given cell, if any.
func (b *Board) PieceAt(p Position) (Piece, bool) {
	for _, piece := range b.Pieces {
		if piece.Position == p {
			return piece, true
		}
	}
	return Piece{}, false
}

func (b *Board) Occupied(p Position) bool {
	_, ok := b.PieceAt(p)
	return ok
}

// HasWord reports whether a word is already on the board,
// case-insensitively.
func (b *Board) HasWord(word string) bool {
	word = strings.ToLower(word)
	for _, piece := range b.Pieces {
		if strings.ToLower(piece.Word) == word {
			return true
		}
	}
	return false
}

// ValidateWord checks a word against the board's input rules without
// mutating anything.
func (b *Board) ValidateWord(word string) error {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return ErrEmptyWord
	}
	if len(trimmed) > MaxWordLength {
		return ErrWordTooLong
	}
	if b.HasWord(trimmed) {
		return ErrDuplicateWord
	}
	return nil
}

// PlacePiece appends a new piece after validating position and word.
// The board is left untouched when an error is returned.
func (b *Board) PlacePiece(pos Position, owner PlayerID, word string) error {
	if !b.InBounds(pos) {
		return ErrOutOfBounds
	}
	if b.Occupied(pos) {
		return ErrPositionOccupied
	}
	if err := b.ValidateWord(word); err != nil {
		return err
	}
	b.Pieces = append(b.Pieces, Piece{
		Position: pos,
		Owner:    owner,
		Word:     strings.TrimSpace(word),
	})
	return nil
}

// PiecesOwnedBy filters the piece list down to one owner, preserving
// placement order.
func (b *Board) PiecesOwnedBy(owner PlayerID) []Piece {
	var pieces []Piece
	for _, piece := range b.Pieces {
		if piece.Owner == owner {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

// Owners returns the distinct piece owners in first-placement order.
func (b *Board) Owners() []PlayerID {
	var owners []PlayerID
	for _, piece := range b.Pieces {
		if !slices.Contains(owners, piece.Owner) {
			owners = append(owners, piece.Owner)
		}
	}
	return owners
}

// EmptyCells returns every unoccupied in-bounds cell, row by row.
func (b *Board) EmptyCells() []Position {
	occupied := make(map[Position]bool, len(b.Pieces))
	for _, piece := range b.Pieces {
		occupied[piece.Position] = true
	}
	cells := make([]Position, 0, b.Width*b.Height-len(b.Pieces))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			pos := Position{X: x, Y: y}
			if !occupied[pos] {
				cells = append(cells, pos)
			}
		}
	}
	return cells
}

// Clone returns a deep copy. Replicas clone boards before sharing them on
// the bus so that no two actors ever mutate the same piece slice.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	return &Board{
		Width:   b.Width,
		Height:  b.Height,
		Pieces:  slices.Clone(b.Pieces),
		Bonuses: slices.Clone(b.Bonuses),
	}
}

// String renders the board for logs and the simulation binary. Occupied
// cells show the first letter of the word, upper-cased for the bot.
func (b *Board) String() string {
	var sb strings.Builder
	byPos := make(map[Position]Piece, len(b.Pieces))
	for _, piece := range b.Pieces {
		byPos[piece.Position] = piece
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			piece, ok := byPos[Position{X: x, Y: y}]
			switch {
			case !ok:
				sb.WriteString("- ")
			case piece.Owner == AIPlayerID:
				sb.WriteString(strings.ToUpper(piece.Word[:1]) + " ")
			default:
				sb.WriteString(strings.ToLower(piece.Word[:1]) + " ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p Piece) String() string {
	return fmt.Sprintf("%s@(%d,%d):%q", p.Owner, p.X, p.Y, p.Word)
}
