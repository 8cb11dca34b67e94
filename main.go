package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/talbenari/wordgarden/internal/httpserver"
	"github.com/talbenari/wordgarden/internal/store"
	"github.com/talbenari/wordgarden/internal/vocab"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := vocab.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load vocabulary data")
	}
	pairs, lists, _, _ := vocab.Stats()
	log.Info().Int("pairs", pairs).Int("lists", lists).Msg("vocabulary loaded")

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db, getEnv("SQL_DIR", "sql")); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordgarden server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
