package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/landmark"
)

const (
	frameChallenge = "challenge"
	frameGuess     = "guess"
	frameResult    = "result"
	frameError     = "error"
)

// PlayFrame is one JSON message on the /ws/play channel, in either direction.
type PlayFrame struct {
	Type      string              `json:"type"`
	Guess     *guess.Request      `json:"guess,omitempty"`
	Challenge *landmark.Challenge `json:"challenge,omitempty"`
	Result    *guess.Result       `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	Details   []string            `json:"details,omitempty"`
}

func handlePlayWS(logger *slog.Logger, game Game, origins []string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{InsecureSkipVerify: true}
	if len(origins) > 0 && !slices.Contains(origins, "*") {
		opts = &websocket.AcceptOptions{OriginPatterns: origins}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}

			reply := playReply(ctx, logger, game, msg)
			if err := wsjson.Write(ctx, conn, reply); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func playReply(ctx context.Context, logger *slog.Logger, game Game, msg []byte) PlayFrame {
	var in PlayFrame
	if err := json.Unmarshal(msg, &in); err != nil {
		return PlayFrame{Type: frameError, Error: msgInvalidBody, Details: []string{msgMalformedPayload}}
	}

	switch in.Type {
	case frameChallenge:
		c, err := game.Challenge(ctx)
		if err != nil {
			_, resp := challengeError(logger, err)
			return errorFrame(resp)
		}
		return PlayFrame{Type: frameChallenge, Challenge: &c}

	case frameGuess:
		if in.Guess == nil {
			return PlayFrame{Type: frameError, Error: msgInvalidBody, Details: []string{"guess is required"}}
		}
		res, err := game.SubmitGuess(ctx, *in.Guess)
		if err != nil {
			_, resp := guessError(logger, err)
			return errorFrame(resp)
		}
		return PlayFrame{Type: frameResult, Result: &res}

	default:
		return PlayFrame{Type: frameError, Error: fmt.Sprintf("unknown message type %q", in.Type)}
	}
}

func errorFrame(resp ErrorResponse) PlayFrame {
	return PlayFrame{Type: frameError, Error: resp.Error, Details: resp.Details}
}
