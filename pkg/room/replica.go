package room

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/TomBers/wordgo/pkg/wordgo"
)

const (
	// DefaultSyncWait bounds how long a joining replica waits for a
	// state reply before declaring its own initial state authoritative.
	DefaultSyncWait = 500 * time.Millisecond

	// DefaultAIDelay is the bot's thinking time: its move runs as a
	// delayed self-message, never synchronously after a human move.
	DefaultAIDelay = time.Second

	updateBuffer = 16
)

// Config wires one replica to its room.
type Config struct {
	Topic  string
	Player wordgo.PlayerID
	Bus    *Bus
	Scorer *wordgo.Scorer
	Vocab  wordgo.Vocabulary
	Logger zerolog.Logger

	BoardWidth    int
	BoardHeight   int
	AIEnabled     bool
	AIDifficulty  wordgo.Difficulty
	ScoreLimit    float64
	MatchDuration time.Duration // 0 means untimed

	SyncWait time.Duration
	AIDelay  time.Duration
}

// Update is what a replica pushes to its attached client: the current
// snapshot plus derived scores. Notice carries an advisory error meant
// for this client only; it never travels on the bus.
type Update struct {
	Snapshot Snapshot                    `json:"snapshot"`
	Scores   map[wordgo.PlayerID]float64 `json:"scores"`
	Synced   bool                        `json:"synced"`
	Notice   string                      `json:"notice,omitempty"`
	GameOver *GameOver                   `json:"game_over,omitempty"`
}

// client commands, posted into the actor mailbox
type command interface{}

type placeCmd struct {
	Pos  wordgo.Position
	Word string
}

type resetCmd struct{}

type difficultyCmd struct {
	Level wordgo.Difficulty
}

type aiTurnCmd struct{}

type deadlineCmd struct {
	At time.Time
}

// Replica is the per-connection room actor. All of its game state is
// mutated from a single goroutine (Run); clients talk to it through
// posted commands and the Updates channel, peers through the bus. The
// room therefore has no shared mutable board state at all.
type Replica struct {
	cfg     Config
	game    *wordgo.Game
	bot     *wordgo.Bot
	sub     *Subscriber
	cmds    chan command
	updates chan Update
	done    chan struct{}
	log     zerolog.Logger

	// synced flips to true once, on the first state reply or on sync
	// timeout, and never reverts for the session's lifetime.
	synced bool
	// gameOver is the monotonic end flag stale timers are checked
	// against. Reset is the only thing that rearms it.
	gameOver bool
}

func New(cfg Config) *Replica {
	if cfg.SyncWait <= 0 {
		cfg.SyncWait = DefaultSyncWait
	}
	if cfg.AIDelay <= 0 {
		cfg.AIDelay = DefaultAIDelay
	}
	if cfg.Scorer == nil {
		cfg.Scorer = wordgo.NewScorer(nil)
	}
	if cfg.Vocab == nil {
		cfg.Vocab = wordgo.DefaultVocabulary()
	}

	board := wordgo.NewBoardWithBonuses(cfg.BoardWidth, cfg.BoardHeight, wordgo.DefaultBonusCount)
	game := wordgo.NewGame(cfg.Topic, board)
	if cfg.ScoreLimit > 0 {
		game.ScoreLimit = cfg.ScoreLimit
	}
	game.AddPlayer(cfg.Player)
	if cfg.AIEnabled {
		difficulty := cfg.AIDifficulty
		if difficulty == "" {
			difficulty = wordgo.DifficultyMedium
		}
		game.EnableAI(difficulty)
	}

	sub := cfg.Bus.Subscribe(cfg.Topic)
	return &Replica{
		cfg:     cfg,
		game:    game,
		bot:     wordgo.NewBot(wordgo.AIPlayerID, cfg.Scorer.Oracle, cfg.Vocab),
		sub:     sub,
		cmds:    make(chan command, updateBuffer),
		updates: make(chan Update, updateBuffer),
		done:    make(chan struct{}),
		log: cfg.Logger.With().
			Str("room", cfg.Topic).
			Str("player", string(cfg.Player)).
			Logger(),
	}
}

// Updates is the stream of state pushed to the attached client.
func (r *Replica) Updates() <-chan Update { return r.updates }

// Player returns the human player this replica represents.
func (r *Replica) Player() wordgo.PlayerID { return r.cfg.Player }

// Place asks the actor to put a word on a cell.
func (r *Replica) Place(pos wordgo.Position, word string) {
	r.post(placeCmd{Pos: pos, Word: word})
}

// Reset asks the actor to start a fresh board.
func (r *Replica) Reset() { r.post(resetCmd{}) }

// SetAIDifficulty retunes the room's bot.
func (r *Replica) SetAIDifficulty(level wordgo.Difficulty) {
	r.post(difficultyCmd{Level: level})
}

func (r *Replica) post(cmd command) {
	select {
	case r.cmds <- cmd:
	case <-r.done:
	}
}

func (r *Replica) postAfter(d time.Duration, cmd command) {
	time.AfterFunc(d, func() { r.post(cmd) })
}

// Run is the actor loop. It announces the join, requests state from
// peers, and then serializes every mutation of the room state until the
// context is cancelled.
func (r *Replica) Run(ctx context.Context) {
	defer func() {
		close(r.done)
		r.cfg.Bus.Unsubscribe(r.sub)
		close(r.updates)
	}()

	r.broadcast(PlayerJoined{
		Player:  r.cfg.Player,
		Players: slices.Clone(r.game.Players),
		Colors:  maps.Clone(r.game.Colors),
	})
	r.broadcast(RequestState{ReplyTo: r.sub})
	r.log.Info().Msg("joined room, requesting state")

	syncTimer := time.NewTimer(r.cfg.SyncWait)
	defer syncTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-r.sub.C:
			r.handleDelivery(ctx, d)
		case cmd := <-r.cmds:
			r.handleCommand(ctx, cmd)
		case <-syncTimer.C:
			if !r.synced {
				// Nobody answered: this replica's own initial state
				// stands as the room's authority.
				r.synced = true
				r.log.Info().Msg("no state reply, becoming authoritative")
				r.emit(ctx, Update{})
			}
		}
	}
}

func (r *Replica) broadcast(ev Event) {
	r.cfg.Bus.Publish(r.cfg.Topic, r.sub.ID, ev)
}

func (r *Replica) handleDelivery(ctx context.Context, d Delivery) {
	if d.From == r.sub.ID {
		// Own broadcasts were already applied locally.
		return
	}
	switch ev := d.Event.(type) {
	case PlayerJoined:
		r.game.MergeRoster(ev.Players, ev.Colors)
		r.game.AddPlayer(ev.Player)
		r.emit(ctx, Update{})
	case RequestState:
		if ev.ReplyTo != nil {
			r.cfg.Bus.SendTo(ev.ReplyTo, r.sub.ID, State{Snapshot: r.snapshot()})
		}
	case State:
		r.handleState(ctx, ev)
	case Move:
		r.game.ReplaceBoard(ev.Board.Clone(), ev.NextTurn)
		r.emit(ctx, Update{})
	case Reset:
		r.gameOver = false
		r.game.Finished = false
		r.game.Winner = ""
		r.game.Deadline = ev.Deadline
		r.game.ReplaceBoard(ev.Board.Clone(), ev.NextTurn)
		r.emit(ctx, Update{})
	case AIDifficultyChanged:
		r.game.AIDifficulty = ev.Level
		r.emit(ctx, Update{})
	case GameOver:
		r.gameOver = true
		r.game.Finished = true
		r.game.Winner = ev.Winner
		over := ev
		r.emit(ctx, Update{GameOver: &over})
	}
}

// handleState adopts the first snapshot reply and ignores every later
// one: first writer wins, which is safe because peers were mutually
// consistent before this replica joined.
func (r *Replica) handleState(ctx context.Context, ev State) {
	if r.synced {
		return
	}
	r.synced = true

	snap := ev.Snapshot
	r.game.Players = slices.Clone(snap.Players)
	r.game.Colors = maps.Clone(snap.Colors)
	if r.game.Colors == nil {
		r.game.Colors = make(map[wordgo.PlayerID]string)
	}
	r.game.AIEnabled = snap.AIEnabled
	r.game.AIDifficulty = snap.AIDifficulty
	if snap.ScoreLimit > 0 {
		r.game.ScoreLimit = snap.ScoreLimit
	}
	r.game.Deadline = snap.Deadline
	r.game.Finished = snap.Finished
	r.game.Winner = snap.Winner
	r.gameOver = snap.Finished
	r.game.ReplaceBoard(snap.Board.Clone(), snap.CurrentTurn)

	// Merge ourselves into the adopted roster and let every peer see
	// the merged result.
	r.game.AddPlayer(r.cfg.Player)
	r.broadcast(PlayerJoined{
		Player:  r.cfg.Player,
		Players: slices.Clone(r.game.Players),
		Colors:  maps.Clone(r.game.Colors),
	})
	if !r.game.Deadline.IsZero() && !r.gameOver {
		r.postAfter(time.Until(r.game.Deadline), deadlineCmd{At: r.game.Deadline})
	}

	r.log.Info().Int("players", len(r.game.Players)).Msg("synced from peer state")
	r.emit(ctx, Update{})
}

func (r *Replica) handleCommand(ctx context.Context, cmd command) {
	switch cmd := cmd.(type) {
	case placeCmd:
		r.handlePlace(ctx, cmd)
	case resetCmd:
		r.handleReset(ctx)
	case difficultyCmd:
		r.game.AIDifficulty = cmd.Level
		r.broadcast(AIDifficultyChanged{Level: cmd.Level})
		r.emit(ctx, Update{})
	case aiTurnCmd:
		r.handleAITurn(ctx)
	case deadlineCmd:
		r.handleDeadline(ctx, cmd)
	}
}

func (r *Replica) handlePlace(ctx context.Context, cmd placeCmd) {
	if r.gameOver {
		r.emit(ctx, Update{Notice: "the game is over"})
		return
	}
	if r.game.CurrentTurn != r.cfg.Player {
		r.emit(ctx, Update{Notice: "not your turn"})
		return
	}
	piece := wordgo.Piece{Position: cmd.Pos, Owner: r.cfg.Player, Word: cmd.Word}
	if err := r.game.ApplyMove(piece); err != nil {
		// Advisory only: rejections stay on this replica and never
		// reach the room.
		r.emit(ctx, Update{Notice: err.Error()})
		return
	}
	r.afterMove(ctx)
}

// afterMove broadcasts the mutated board, runs win checks, and hands
// the turn to the bot when it is next.
func (r *Replica) afterMove(ctx context.Context) {
	if r.cfg.MatchDuration > 0 && r.game.Deadline.IsZero() {
		r.game.Deadline = time.Now().Add(r.cfg.MatchDuration)
		r.postAfter(r.cfg.MatchDuration, deadlineCmd{At: r.game.Deadline})
	}
	r.broadcast(Move{Board: r.game.Board.Clone(), NextTurn: r.game.CurrentTurn})

	scores := r.game.Scores(ctx, r.cfg.Scorer)
	if r.game.CheckScoreLimit(scores) {
		r.finish(ctx, ReasonScoreLimit, scores)
		return
	}
	r.emit(ctx, Update{})

	if r.game.AIEnabled && r.game.CurrentTurn == wordgo.AIPlayerID {
		r.postAfter(r.cfg.AIDelay, aiTurnCmd{})
	}
}

func (r *Replica) handleAITurn(ctx context.Context) {
	if r.gameOver || !r.game.AIEnabled || r.game.CurrentTurn != wordgo.AIPlayerID {
		return
	}
	piece, err := r.bot.PlanMove(ctx, r.game.Board, r.game.Players, r.game.AIDifficulty)
	if err != nil {
		// The bot cannot move: pass its turn without touching the
		// board so the rotation stays intact.
		r.log.Debug().Err(err).Msg("bot skips turn")
		r.game.CurrentTurn = r.game.NextTurn()
		r.broadcast(Move{Board: r.game.Board.Clone(), NextTurn: r.game.CurrentTurn})
		r.emit(ctx, Update{})
		return
	}
	if err := r.game.ApplyMove(piece); err != nil {
		r.log.Warn().Err(err).Stringer("piece", piece).Msg("bot move rejected")
		return
	}
	r.log.Debug().Stringer("piece", piece).Msg("bot moved")
	r.afterMove(ctx)
}

func (r *Replica) handleReset(ctx context.Context) {
	r.gameOver = false
	r.game.Reset()
	if r.cfg.MatchDuration > 0 {
		r.game.Deadline = time.Now().Add(r.cfg.MatchDuration)
		r.postAfter(r.cfg.MatchDuration, deadlineCmd{At: r.game.Deadline})
	}
	r.broadcast(Reset{
		Board:    r.game.Board.Clone(),
		NextTurn: r.game.CurrentTurn,
		Deadline: r.game.Deadline,
	})
	r.emit(ctx, Update{})
}

// handleDeadline fires at match expiry. A stale timer, left over from a
// board that has since been reset or finished, identifies itself by a
// deadline that no longer matches and is ignored.
func (r *Replica) handleDeadline(ctx context.Context, cmd deadlineCmd) {
	if r.gameOver || r.game.Deadline.IsZero() || !r.game.Deadline.Equal(cmd.At) {
		return
	}
	scores := r.game.Scores(ctx, r.cfg.Scorer)
	r.game.FinishAtDeadline(scores)
	r.finish(ctx, ReasonTimeLimit, scores)
}

func (r *Replica) finish(ctx context.Context, reason string, scores map[wordgo.PlayerID]float64) {
	r.gameOver = true
	over := GameOver{Reason: reason, Winner: r.game.Winner, FinalScores: scores}
	r.broadcast(over)
	r.log.Info().Str("reason", reason).Str("winner", string(over.Winner)).Msg("game over")
	r.emit(ctx, Update{GameOver: &over})
}

func (r *Replica) snapshot() Snapshot {
	return Snapshot{
		Board:        r.game.Board.Clone(),
		Players:      slices.Clone(r.game.Players),
		Colors:       maps.Clone(r.game.Colors),
		CurrentTurn:  r.game.CurrentTurn,
		AIEnabled:    r.game.AIEnabled,
		AIDifficulty: r.game.AIDifficulty,
		ScoreLimit:   r.game.ScoreLimit,
		Deadline:     r.game.Deadline,
		Finished:     r.game.Finished,
		Winner:       r.game.Winner,
	}
}

// emit pushes an update to the attached client, filling in the snapshot
// and scores. The channel is buffered; a slow client loses intermediate
// updates rather than stalling the actor.
func (r *Replica) emit(ctx context.Context, u Update) {
	u.Snapshot = r.snapshot()
	u.Synced = r.synced
	if u.Scores == nil {
		if over := u.GameOver; over != nil && over.FinalScores != nil {
			u.Scores = over.FinalScores
		} else {
			u.Scores = r.game.Scores(ctx, r.cfg.Scorer)
		}
	}
	select {
	case r.updates <- u:
	default:
	}
}
