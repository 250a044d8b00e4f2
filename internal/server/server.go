// Package server is the websocket edge of wordgo: it upgrades client
// connections, attaches each one to a room replica, and shuttles JSON
// between the socket and the replica's command/update channels.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/TomBers/wordgo/pkg/room"
	"github.com/TomBers/wordgo/pkg/wordgo"
)

type Config struct {
	Addr          string
	BoardWidth    int
	BoardHeight   int
	ScoreLimit    float64
	MatchDuration time.Duration
}

type Server struct {
	cfg    Config
	bus    *room.Bus
	scorer *wordgo.Scorer
	vocab  wordgo.Vocabulary
	log    zerolog.Logger
}

func New(cfg Config, scorer *wordgo.Scorer, vocab wordgo.Vocabulary, logger zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		bus:    room.NewBus(),
		scorer: scorer,
		vocab:  vocab,
		log:    logger.With().Str("component", "server").Logger(),
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
