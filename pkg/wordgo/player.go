package wordgo

import (
	"github.com/google/uuid"
)

// playerPalette cycles over joined players for display colors, carried
// in state snapshots so all replicas agree on assignments.
var playerPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c",
}

// NewPlayerID mints an id for a freshly connected human player.
func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}
