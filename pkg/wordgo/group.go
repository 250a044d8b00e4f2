package wordgo

// Group is a maximal set of pieces connected through orthogonal
// adjacency. Groups are derived, never stored: they are recomputed from
// the current piece list whenever scores or bot plans are needed.
type Group []Piece

// Words returns the words of the group in member order.
func (g Group) Words() []string {
	words := make([]string, len(g))
	for i, piece := range g {
		words[i] = piece.Word
	}
	return words
}

// GetGroups partitions the input pieces into connected components over
// the 4-neighborhood. The algorithm is owner-agnostic: it unions anything
// adjacent in the input set, so callers that want same-owner groups must
// filter before the call. Neither group order nor piece order within a
// group carries meaning.
func GetGroups(pieces []Piece) []Group {
	if len(pieces) == 0 {
		return nil
	}

	byPos := make(map[Position]Piece, len(pieces))
	for _, piece := range pieces {
		byPos[piece.Position] = piece
	}

	visited := make(map[Position]bool, len(pieces))
	var groups []Group

	// Explicit work stack instead of recursion: a full board is one
	// potential chain of width*height pieces.
	stack := make([]Position, 0, len(pieces))

	for _, piece := range pieces {
		if visited[piece.Position] {
			continue
		}
		visited[piece.Position] = true
		stack = append(stack[:0], piece.Position)

		var group Group
		for len(stack) > 0 {
			pos := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, byPos[pos])

			for _, next := range pos.Neighbors() {
				if visited[next] {
					continue
				}
				if _, ok := byPos[next]; !ok {
					continue
				}
				visited[next] = true
				stack = append(stack, next)
			}
		}
		groups = append(groups, group)
	}

	return groups
}

// GroupsFor returns the connected same-owner groups of a single player.
func (b *Board) GroupsFor(owner PlayerID) []Group {
	return GetGroups(b.PiecesOwnedBy(owner))
}
