// wordgo-sim pits two bots against each other on a shared board and
// tallies wins. Useful for eyeballing how the difficulty tunables play
// out without a server or an embedding service.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/TomBers/wordgo/pkg/wordgo"
)

var (
	numGames   = flag.Int("n", 10, "Number of games to simulate")
	boardSize  = flag.Int("size", 6, "Board width and height")
	printBoard = flag.Bool("board", false, "Print the final board of each game")
)

func main() {
	start := time.Now()
	flag.Parse()

	vocab := wordgo.DefaultVocabulary()
	scorer := wordgo.NewScorer(nil)

	var winsA, winsB int
	for i := 0; i < *numGames; i++ {
		scoreA, scoreB := simulateGame(scorer, vocab)
		if scoreA > scoreB {
			winsA++
		}
		if scoreB > scoreA {
			winsB++
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("%v games were played\nHard bot won %v games, easy bot won %v games; %v games were draws.\n",
		*numGames,
		winsA,
		winsB,
		*numGames-winsA-winsB,
	)
	fmt.Println("Took", elapsed)
}

func simulateGame(scorer *wordgo.Scorer, vocab wordgo.Vocabulary) (scoreA, scoreB float64) {
	ctx := context.Background()
	board := wordgo.NewBoardWithBonuses(*boardSize, *boardSize, wordgo.DefaultBonusCount)
	players := []wordgo.PlayerID{"hard-bot", "easy-bot"}

	botA := wordgo.NewBot(players[0], nil, vocab)
	botB := wordgo.NewBot(players[1], nil, vocab)

	for i := 0; ; i++ {
		var piece wordgo.Piece
		var err error
		if i%2 == 0 {
			piece, err = botA.PlanMove(ctx, board, players, wordgo.DifficultyHard)
		} else {
			piece, err = botB.PlanMove(ctx, board, players, wordgo.DifficultyEasy)
		}
		if err != nil {
			// No cells or no words left for this bot: the game is done.
			break
		}
		if err := board.PlacePiece(piece.Position, piece.Owner, piece.Word); err != nil {
			break
		}
	}

	if *printBoard {
		fmt.Println(board)
	}
	scores := scorer.BoardScores(ctx, board)
	return scores[players[0]], scores[players[1]]
}
