package main

import (
	"net/http"
	"os"
	"time"

	"matchmaker_core/config"
	"matchmaker_core/models"
	"matchmaker_core/routes"
	"matchmaker_core/services"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := setupLogger(cfg.Log.Level)

	store := services.NewStore()
	if cfg.Seed.Demo {
		seedDemo(store, logger)
	}

	r := routes.NewRouter(store, logger)
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	addr := cfg.Server.Addr()
	logger.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// seedDemo populates the store with a handful of daters and a matchmaker so
// the SDK can be exercised against a fresh server.
func seedDemo(store *services.Store, logger zerolog.Logger) {
	score := func(v int) *int { return &v }

	alice := store.AddUser(services.User{ID: "alice", Role: models.RoleDater, FirstName: "Alice", AIScore: score(82)})
	bob := store.AddUser(services.User{ID: "bob", Role: models.RoleDater, FirstName: "Bob", AIScore: score(74)})
	carol := store.AddUser(services.User{ID: "carol", Role: models.RoleDater, FirstName: "Carol", AIScore: score(91)})
	dave := store.AddUser(services.User{ID: "dave", Role: models.RoleDater, FirstName: "Dave"})
	mona := store.AddUser(services.User{ID: "mona", Role: models.RoleMatchmaker, FirstName: "Mona"})

	store.LinkDater(mona, alice)
	store.LinkDater(mona, dave)

	for _, id := range []string{alice, bob, carol, dave, mona} {
		token := store.IssueToken(id, 24*time.Hour)
		logger.Info().Str("user", id).Str("token", token).Msg("demo account ready")
	}
}
