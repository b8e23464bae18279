package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/landmarks/internal/guess"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgInvalidLandmark  = "Invalid landmarkId"
	msgSummaryFailed    = "Failed to fetch Wikipedia data"
	msgNoLandmarks      = "No landmarks available"
	msgInternal         = "internal error"
	msgMalformedPayload = "request body must be a JSON object"
)

func handleGuess(logger *slog.Logger, game Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guess.Request
		if err := readJSON(r, &req); err != nil {
			writeErrorDetails(w, http.StatusBadRequest, msgInvalidBody, []string{msgMalformedPayload})
			return
		}

		res, err := game.SubmitGuess(r.Context(), req)
		if err != nil {
			status, resp := guessError(logger, err)
			writeJSON(w, status, resp)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

// guessError maps a SubmitGuess failure to a status and a body that never
// carries the underlying cause.
func guessError(logger *slog.Logger, err error) (int, ErrorResponse) {
	var ve *guess.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody, Details: ve.Details}
	case errors.Is(err, guess.ErrUnknownLandmark):
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidLandmark}
	case errors.Is(err, guess.ErrSummaryUnavailable):
		return http.StatusInternalServerError, ErrorResponse{Error: msgSummaryFailed}
	default:
		logger.Error("submitting guess", "error", err)
		return http.StatusInternalServerError, ErrorResponse{Error: msgInternal}
	}
}
