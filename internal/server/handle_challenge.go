package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/landmarks/internal/guess"
)

func handleChallenge(logger *slog.Logger, game Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := game.Challenge(r.Context())
		if err != nil {
			status, resp := challengeError(logger, err)
			writeJSON(w, status, resp)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func challengeError(logger *slog.Logger, err error) (int, ErrorResponse) {
	if errors.Is(err, guess.ErrNoLandmarks) {
		logger.Error("landmark catalog is empty")
		return http.StatusInternalServerError, ErrorResponse{Error: msgNoLandmarks}
	}
	logger.Error("picking challenge", "error", err)
	return http.StatusInternalServerError, ErrorResponse{Error: msgInternal}
}
