package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TomBers/wordgo/internal/server"
	"github.com/TomBers/wordgo/pkg/wordgo"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var oracle wordgo.SimilarityOracle
	var cached *wordgo.CachedOracle
	if url := os.Getenv("ORACLE_URL"); url != "" {
		cached = wordgo.NewCachedOracle(wordgo.NewHTTPOracle(url, log.Logger))
		oracle = cached
	} else {
		log.Warn().Msg("ORACLE_URL not set, scoring falls back to exact matching")
	}

	var base wordgo.Vocabulary = wordgo.DefaultVocabulary()
	if path := os.Getenv("WORDS_FILE"); path != "" {
		loaded, err := wordgo.LoadVocabulary(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load word list")
		}
		base = loaded
		log.Info().Int("words", len(loaded)).Str("path", path).Msg("loaded word list")
	}
	invalidate := func() {}
	if cached != nil {
		invalidate = cached.Invalidate
	}
	vocab := wordgo.NewSwapVocabulary(base, invalidate)

	cfg := server.Config{
		Addr:          ":" + getEnv("PORT", "4000"),
		BoardWidth:    getEnvInt("BOARD_WIDTH", wordgo.DefaultBoardWidth),
		BoardHeight:   getEnvInt("BOARD_HEIGHT", wordgo.DefaultBoardHeight),
		ScoreLimit:    float64(getEnvInt("SCORE_LIMIT", int(wordgo.DefaultScoreLimit))),
		MatchDuration: time.Duration(getEnvInt("MATCH_MINUTES", 0)) * time.Minute,
	}

	srv := server.New(cfg, wordgo.NewScorer(oracle), vocab, log.Logger)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
