package server

import (
	"net/http"

	"github.com/playperu/landmarks/internal/scoring"
)

func handlePrecisions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, scoring.Tiers())
	}
}
