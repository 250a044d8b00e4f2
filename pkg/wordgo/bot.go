package wordgo

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// AIPlayerID is the reserved id of the synthetic bot player. On the
// board it behaves exactly like any human id.
const AIPlayerID PlayerID = "AI"

// suggestionCount is how many oracle-ranked word candidates the bot
// considers before falling back to a random unused word.
const suggestionCount = 5

var (
	ErrNoEmptyPositions = errors.New("no empty positions left")
	ErrNoWordAvailable  = errors.New("no unused word available")
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Tunables are the difficulty-dependent weights of the bot heuristic.
type Tunables struct {
	// TargetSimilarity is the desired cosine similarity between a chosen
	// word and its base word. Higher difficulty plays more coherently.
	TargetSimilarity float64
	// BlockWeight scales how aggressively frontier cells fencing the
	// opponent's largest group are preferred.
	BlockWeight int
	// GrowWeight scales adjacency to the bot's own pieces.
	GrowWeight int
}

func (d Difficulty) Tunables() Tunables {
	switch d {
	case DifficultyEasy:
		return Tunables{TargetSimilarity: 0.3, BlockWeight: 1, GrowWeight: 1}
	case DifficultyHard:
		return Tunables{TargetSimilarity: 0.85, BlockWeight: 3, GrowWeight: 1}
	default:
		return Tunables{TargetSimilarity: 0.6, BlockWeight: 2, GrowWeight: 1}
	}
}

// GameState contains the bare minimum of information that a bot needs to
// decide on a move.
type GameState struct {
	Board      *Board
	Players    []PlayerID // turn order, including Self
	Self       PlayerID
	Difficulty Difficulty
}

// Strategy is an interface for automatic players: pick a target cell,
// then pick a word for it.
type Strategy interface {
	PickPosition(state *GameState) (Position, error)
	PickWord(ctx context.Context, state *GameState, target Position) (string, error)
}

type Bot struct {
	ID PlayerID
	Strategy
}

func NewBot(id PlayerID, oracle SimilarityOracle, vocab Vocabulary) *Bot {
	return &Bot{
		ID:       id,
		Strategy: &Blocker{Oracle: oracle, Vocab: vocab},
	}
}

// PlanMove produces the bot's next piece, or an error when no legal move
// exists. The caller skips the bot's turn on error; the board is never
// touched here.
func (b *Bot) PlanMove(ctx context.Context, board *Board, players []PlayerID, difficulty Difficulty) (Piece, error) {
	state := &GameState{
		Board:      board,
		Players:    players,
		Self:       b.ID,
		Difficulty: difficulty,
	}
	pos, err := b.PickPosition(state)
	if err != nil {
		return Piece{}, err
	}
	word, err := b.PickWord(ctx, state, pos)
	if err != nil {
		return Piece{}, err
	}
	return Piece{Position: pos, Owner: b.ID, Word: word}, nil
}

// Blocker is a greedy single-ply strategy with a one-ply adversary
// lookahead. It fences the target opponent's largest group while keeping
// its own pieces connected, and asks the oracle for words near a
// difficulty-dependent similarity to the group it is extending.
type Blocker struct {
	Oracle SimilarityOracle
	Vocab  Vocabulary
}

var _ Strategy = (*Blocker)(nil)

type positionCandidate struct {
	pos      Position
	score    int
	blockAdj int
	growAdj  int
}

func (s *Blocker) PickPosition(state *GameState) (Position, error) {
	empty := state.Board.EmptyCells()
	if len(empty) == 0 {
		return Position{}, ErrNoEmptyPositions
	}

	threat := threatGroup(state)
	if len(threat) == 0 {
		return growthPosition(state, empty), nil
	}

	threatSet := positionSet(threat)
	emptySet := make(map[Position]bool, len(empty))
	for _, pos := range empty {
		emptySet[pos] = true
	}
	ownSet := positionSet(state.Board.PiecesOwnedBy(state.Self))

	// Frontier cells: empty neighbors of the threat group.
	var frontier []Position
	for _, piece := range threat {
		for _, next := range piece.Neighbors() {
			if emptySet[next] && state.Board.InBounds(next) {
				frontier = append(frontier, next)
			}
		}
	}
	frontier = lo.Uniq(frontier)
	if len(frontier) == 0 {
		return growthPosition(state, empty), nil
	}

	w := state.Difficulty.Tunables()
	candidates := make([]positionCandidate, 0, len(frontier))
	for _, pos := range frontier {
		blockAdj := adjacentCount(pos, threatSet)
		growAdj := adjacentCount(pos, ownSet)

		// One-ply lookahead: the best fencing cell the opponent still
		// reaches once this one is taken.
		oppNextBest := 0
		for _, other := range frontier {
			if other == pos {
				continue
			}
			if adj := adjacentCount(other, threatSet); adj > oppNextBest {
				oppNextBest = adj
			}
		}

		// Neighbors left empty after placing here approximate the bot's
		// own future flexibility.
		futureGrowth := 0
		for _, next := range pos.Neighbors() {
			if emptySet[next] {
				futureGrowth++
			}
		}

		score := w.BlockWeight*blockAdj +
			w.GrowWeight*growAdj +
			(w.GrowWeight*futureGrowth)/2 -
			oppNextBest

		candidates = append(candidates, positionCandidate{
			pos:      pos,
			score:    score,
			blockAdj: blockAdj,
			growAdj:  growAdj,
		})
	}

	// Pure blocking power wins ties over raw growth.
	slices.SortStableFunc(candidates, func(a, b positionCandidate) bool {
		if a.score != b.score {
			return a.score > b.score
		}
		if a.blockAdj != b.blockAdj {
			return a.blockAdj > b.blockAdj
		}
		return a.growAdj > b.growAdj
	})

	return candidates[0].pos, nil
}

// threatGroup returns the target opponent's largest group, or nil when
// there is no opponent or the opponent has no pieces.
func threatGroup(state *GameState) Group {
	opponent := targetOpponent(state)
	if opponent == "" {
		return nil
	}
	var largest Group
	for _, group := range state.Board.GroupsFor(opponent) {
		if len(group) > len(largest) {
			largest = group
		}
	}
	return largest
}

// targetOpponent is the next player after Self in turn rotation,
// skipping Self when the rotation would come back around.
func targetOpponent(state *GameState) PlayerID {
	i := slices.Index(state.Players, state.Self)
	if i == -1 {
		for _, p := range state.Players {
			if p != state.Self {
				return p
			}
		}
		return ""
	}
	n := len(state.Players)
	for j := 1; j <= n; j++ {
		p := state.Players[(i+j)%n]
		if p != state.Self {
			return p
		}
	}
	return ""
}

// growthPosition ranks empty cells by adjacency to the bot's own pieces;
// with no own adjacency anywhere it picks uniformly at random.
func growthPosition(state *GameState, empty []Position) Position {
	ownSet := positionSet(state.Board.PiecesOwnedBy(state.Self))

	best, bestAdj := empty[0], 0
	for _, pos := range empty {
		if adj := adjacentCount(pos, ownSet); adj > bestAdj {
			best, bestAdj = pos, adj
		}
	}
	if bestAdj == 0 {
		// # nosec
		return empty[rand.Intn(len(empty))]
	}
	return best
}

func (s *Blocker) PickWord(ctx context.Context, state *GameState, target Position) (string, error) {
	vocab := s.Vocab.AllWords()
	used := make(map[string]bool, len(state.Board.Pieces))
	for _, piece := range state.Board.Pieces {
		used[strings.ToLower(piece.Word)] = true
	}
	unused := lo.Filter(vocab, func(word string, _ int) bool {
		return !used[strings.ToLower(word)]
	})
	if len(unused) == 0 {
		return "", ErrNoWordAvailable
	}

	own := state.Board.PiecesOwnedBy(state.Self)
	if len(own) == 0 {
		// # nosec
		return unused[rand.Intn(len(unused))], nil
	}

	// Seed from the own group closest to the target cell, so the new
	// word stays thematically close to what it will connect with.
	bases := nearestGroup(GetGroups(own), target).Words()
	if len(bases) == 0 {
		bases = Group(own).Words()
	}
	// # nosec
	base := bases[rand.Intn(len(bases))]

	w := state.Difficulty.Tunables()
	for _, word := range s.suggest(ctx, base, w.TargetSimilarity, vocab) {
		if !used[strings.ToLower(word)] {
			return word, nil
		}
	}

	// Every suggestion collided, or the oracle was down.
	// # nosec
	return unused[rand.Intn(len(unused))], nil
}

// nearestGroup picks the group with the smallest Manhattan distance from
// any member to the target, first found on ties.
func nearestGroup(groups []Group, target Position) Group {
	var nearest Group
	bestDist := -1
	for _, group := range groups {
		for _, piece := range group {
			dist := piece.ManhattanDistance(target)
			if bestDist == -1 || dist < bestDist {
				bestDist = dist
				nearest = group
			}
		}
	}
	return nearest
}

type rankedWord struct {
	word string
	sim  float64
}

// suggest asks the oracle for the vocabulary words closest to a
// synthetic target that sits at cosine similarity targetSim from the
// base word. Returns nil when the oracle cannot help; the caller then
// falls back to random selection.
func (s *Blocker) suggest(ctx context.Context, base string, targetSim float64, vocab []string) []string {
	if s.Oracle == nil {
		return nil
	}
	batch := append([]string{base}, vocab...)
	vectors, err := s.Oracle.Embed(ctx, batch)
	if err != nil || len(vectors) != len(batch) {
		return nil
	}

	target := TargetEmbedding(vectors[0], targetSim)
	ranked := make([]rankedWord, 0, len(vocab))
	for i, word := range vocab {
		if strings.EqualFold(word, base) {
			continue
		}
		ranked = append(ranked, rankedWord{word: word, sim: Cosine(vectors[i+1], target)})
	}
	slices.SortStableFunc(ranked, func(a, b rankedWord) bool {
		return a.sim > b.sim
	})

	if len(ranked) > suggestionCount {
		ranked = ranked[:suggestionCount]
	}
	words := make([]string, len(ranked))
	for i, r := range ranked {
		words[i] = r.word
	}
	return words
}

func positionSet(pieces []Piece) map[Position]bool {
	set := make(map[Position]bool, len(pieces))
	for _, piece := range pieces {
		set[piece.Position] = true
	}
	return set
}

func adjacentCount(pos Position, set map[Position]bool) int {
	count := 0
	for _, next := range pos.Neighbors() {
		if set[next] {
			count++
		}
	}
	return count
}
