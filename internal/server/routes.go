package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, game Game, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Landmark Quiz API", "/openapi.json", "/docs"))

	r.Route("/api", func(r chi.Router) {
		r.Use(limitBody(maxGuessBody))
		r.Get("/landmarks/random", handleChallenge(logger, game))
		r.Post("/landmarks/guess", handleGuess(logger, game))
		r.Get("/precisions", handlePrecisions())
	})

	r.Get("/ws/play", handlePlayWS(logger, game, opts.CORSOrigins))

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
