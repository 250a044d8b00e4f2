package wordgo

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTargetOpponent(t *testing.T) {
	tests := []struct {
		name    string
		players []PlayerID
		self    PlayerID
		want    PlayerID
	}{
		{"next after self", []PlayerID{"p1", "AI", "p2"}, "AI", "p2"},
		{"wraps around", []PlayerID{"p1", "p2", "AI"}, "AI", "p1"},
		{"skips nothing with two players", []PlayerID{"AI", "p1"}, "AI", "p1"},
		{"alone", []PlayerID{"AI"}, "AI", ""},
		{"self missing from roster", []PlayerID{"p1", "p2"}, "AI", "p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &GameState{Players: tt.players, Self: tt.self}
			if got := targetOpponent(state); got != tt.want {
				t.Fatalf("targetOpponent = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestPickPositionBlocksThreatGroup builds an L-shaped opponent group.
// The corner cell (2,2) fences two of its pieces at once and must win
// over every single-adjacency frontier cell.
func TestPickPositionBlocksThreatGroup(t *testing.T) {
	b := NewBoard(6, 6)
	mustPlace(t, b, 1, 1, "p1", "cat")
	mustPlace(t, b, 1, 2, "p1", "dog")
	mustPlace(t, b, 2, 1, "p1", "fish")

	strategy := &Blocker{Vocab: DefaultVocabulary()}
	state := &GameState{
		Board:      b,
		Players:    []PlayerID{"p1", AIPlayerID},
		Self:       AIPlayerID,
		Difficulty: DifficultyHard,
	}
	pos, err := strategy.PickPosition(state)
	if err != nil {
		t.Fatalf("PickPosition: %v", err)
	}
	if pos != (Position{X: 2, Y: 2}) {
		t.Fatalf("PickPosition = %v, want (2,2)", pos)
	}
}

// With several opponent groups, only the largest is the threat; the bot
// must play adjacent to it, not to the singleton.
func TestPickPositionTargetsLargestGroup(t *testing.T) {
	b := NewBoard(8, 8)
	mustPlace(t, b, 1, 1, "p1", "cat")
	mustPlace(t, b, 1, 2, "p1", "dog")
	mustPlace(t, b, 6, 6, "p1", "bird")

	strategy := &Blocker{Vocab: DefaultVocabulary()}
	state := &GameState{
		Board:      b,
		Players:    []PlayerID{"p1", AIPlayerID},
		Self:       AIPlayerID,
		Difficulty: DifficultyMedium,
	}
	pos, err := strategy.PickPosition(state)
	if err != nil {
		t.Fatalf("PickPosition: %v", err)
	}
	threat := map[Position]bool{{1, 1}: true, {1, 2}: true}
	if adjacentCount(pos, threat) == 0 {
		t.Fatalf("PickPosition = %v, not adjacent to the threat group", pos)
	}
}

// Without any opponent pieces there is no threat group, so the bot
// falls back to growth mode next to its own pieces.
func TestPickPositionGrowthFallback(t *testing.T) {
	b := NewBoard(5, 5)
	mustPlace(t, b, 2, 2, AIPlayerID, "cat")

	strategy := &Blocker{Vocab: DefaultVocabulary()}
	state := &GameState{
		Board:      b,
		Players:    []PlayerID{"p1", AIPlayerID},
		Self:       AIPlayerID,
		Difficulty: DifficultyEasy,
	}
	pos, err := strategy.PickPosition(state)
	if err != nil {
		t.Fatalf("PickPosition: %v", err)
	}
	own := map[Position]bool{{2, 2}: true}
	if adjacentCount(pos, own) == 0 {
		t.Fatalf("growth move %v is not adjacent to the bot's piece", pos)
	}
}

func TestPickPositionRandomWhenBoardIsCold(t *testing.T) {
	// No pieces at all: any empty cell is acceptable.
	b := NewBoard(3, 3)
	strategy := &Blocker{Vocab: DefaultVocabulary()}
	state := &GameState{
		Board:   b,
		Players: []PlayerID{"p1", AIPlayerID},
		Self:    AIPlayerID,
	}
	pos, err := strategy.PickPosition(state)
	if err != nil {
		t.Fatalf("PickPosition: %v", err)
	}
	if !b.InBounds(pos) || b.Occupied(pos) {
		t.Fatalf("PickPosition = %v, want an empty in-bounds cell", pos)
	}
}

func TestPickPositionFullBoard(t *testing.T) {
	b := NewBoard(2, 2)
	words := []string{"aa", "bb", "cc", "dd"}
	i := 0
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			mustPlace(t, b, x, y, "p1", words[i])
			i++
		}
	}
	strategy := &Blocker{Vocab: DefaultVocabulary()}
	state := &GameState{Board: b, Players: []PlayerID{"p1", AIPlayerID}, Self: AIPlayerID}
	if _, err := strategy.PickPosition(state); !errors.Is(err, ErrNoEmptyPositions) {
		t.Fatalf("error = %v, want ErrNoEmptyPositions", err)
	}
}

func TestPickWordNeverRepeats(t *testing.T) {
	vocab := StaticVocabulary{"cat", "dog", "bird", "truck"}
	b := NewBoard(5, 5)
	mustPlace(t, b, 0, 0, AIPlayerID, "cat")
	mustPlace(t, b, 4, 4, "p1", "DOG") // uniqueness is case-insensitive

	strategy := &Blocker{Oracle: newFakeOracle(testVectors()), Vocab: vocab}
	state := &GameState{
		Board:      b,
		Players:    []PlayerID{"p1", AIPlayerID},
		Self:       AIPlayerID,
		Difficulty: DifficultyHard,
	}

	for i := 0; i < 20; i++ {
		word, err := strategy.PickWord(context.Background(), state, Position{X: 1, Y: 0})
		if err != nil {
			t.Fatalf("PickWord: %v", err)
		}
		if b.HasWord(word) {
			t.Fatalf("PickWord returned %q, already on the board", word)
		}
	}
}

func TestPickWordOracleDownFallsBackToRandom(t *testing.T) {
	vocab := StaticVocabulary{"cat", "dog", "bird"}
	b := NewBoard(5, 5)
	mustPlace(t, b, 0, 0, AIPlayerID, "cat")

	strategy := &Blocker{Oracle: failingOracle{}, Vocab: vocab}
	state := &GameState{Board: b, Players: []PlayerID{"p1", AIPlayerID}, Self: AIPlayerID}

	word, err := strategy.PickWord(context.Background(), state, Position{X: 1, Y: 0})
	if err != nil {
		t.Fatalf("PickWord: %v", err)
	}
	if lower := strings.ToLower(word); lower != "dog" && lower != "bird" {
		t.Fatalf("PickWord = %q, want an unused vocabulary word", word)
	}
}

func TestPickWordExhaustedVocabulary(t *testing.T) {
	vocab := StaticVocabulary{"cat", "dog"}
	b := NewBoard(5, 5)
	mustPlace(t, b, 0, 0, AIPlayerID, "cat")
	mustPlace(t, b, 1, 0, "p1", "dog")

	strategy := &Blocker{Vocab: vocab}
	state := &GameState{Board: b, Players: []PlayerID{"p1", AIPlayerID}, Self: AIPlayerID}

	if _, err := strategy.PickWord(context.Background(), state, Position{X: 2, Y: 0}); !errors.Is(err, ErrNoWordAvailable) {
		t.Fatalf("error = %v, want ErrNoWordAvailable", err)
	}
}

func TestNearestGroupPrefersClosestMember(t *testing.T) {
	far := Group{{Position: Position{X: 9, Y: 9}, Word: "far"}}
	near := Group{
		{Position: Position{X: 0, Y: 0}, Word: "a"},
		{Position: Position{X: 0, Y: 1}, Word: "b"},
	}
	got := nearestGroup([]Group{far, near}, Position{X: 1, Y: 0})
	if len(got) != 2 {
		t.Fatalf("nearestGroup picked %v, want the 2-piece group", got.Words())
	}
}

// TestPlanMoveSuggestsRelatedWord drives the full plan: the bot should
// extend its animal cluster with the remaining animal word rather than
// the vehicle, since hard difficulty targets high similarity.
func TestPlanMoveSuggestsRelatedWord(t *testing.T) {
	vocab := StaticVocabulary{"cat", "dog", "bird", "truck"}
	b := NewBoard(6, 6)
	mustPlace(t, b, 2, 2, AIPlayerID, "cat")
	mustPlace(t, b, 2, 3, AIPlayerID, "dog")
	mustPlace(t, b, 4, 4, "p1", "truck")

	bot := NewBot(AIPlayerID, newFakeOracle(testVectors()), vocab)
	piece, err := bot.PlanMove(context.Background(), b, []PlayerID{"p1", AIPlayerID}, DifficultyHard)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if piece.Owner != AIPlayerID {
		t.Fatalf("piece owner = %q, want %q", piece.Owner, AIPlayerID)
	}
	if b.Occupied(piece.Position) {
		t.Fatalf("PlanMove chose an occupied cell %v", piece.Position)
	}
	if strings.ToLower(piece.Word) != "bird" {
		t.Fatalf("PlanMove chose %q, want the remaining related word \"bird\"", piece.Word)
	}
}

func TestDifficultyTunables(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		sim        float64
		block      int
	}{
		{DifficultyEasy, 0.3, 1},
		{DifficultyMedium, 0.6, 2},
		{DifficultyHard, 0.85, 3},
		{Difficulty("unknown"), 0.6, 2},
	}
	for _, tt := range tests {
		w := tt.difficulty.Tunables()
		if w.TargetSimilarity != tt.sim || w.BlockWeight != tt.block || w.GrowWeight != 1 {
			t.Fatalf("%s tunables = %+v", tt.difficulty, w)
		}
	}
}
