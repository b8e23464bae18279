package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/handler/health"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/scoring"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Landmark Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the landmark guessing game.")

	// GET /health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/health")
	getHealth.SetSummary("Health check")
	getHealth.SetDescription("Returns the health status of backend dependencies.")
	getHealth.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealth.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealth)

	// GET /api/landmarks/random
	getRandom, _ := r.NewOperationContext(http.MethodGet, "/api/landmarks/random")
	getRandom.SetSummary("Random landmark")
	getRandom.SetDescription("Picks a landmark to guess. The location is never included.")
	getRandom.AddRespStructure(landmark.Challenge{}, openapi.WithHTTPStatus(http.StatusOK))
	getRandom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(getRandom)

	// POST /api/landmarks/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/landmarks/guess")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Scores a guess at the requested precision and returns the landmark summary.")
	postGuess.AddReqStructure(guess.Request{})
	postGuess.AddRespStructure(guess.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postGuess)

	// GET /api/precisions
	getPrecisions, _ := r.NewOperationContext(http.MethodGet, "/api/precisions")
	getPrecisions.SetSummary("Precision tiers")
	getPrecisions.SetDescription("Returns every precision tier with its radius and points, finest first.")
	getPrecisions.AddRespStructure([]scoring.Tier{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getPrecisions)

	// GET /ws/play
	getPlay, _ := r.NewOperationContext(http.MethodGet, "/ws/play")
	getPlay.SetSummary("WebSocket play channel")
	getPlay.SetDescription(`Upgrades to a WebSocket. Send {"type":"challenge"} or {"type":"guess","guess":{...}}; ` +
		`replies are challenge, result or error frames.`)
	getPlay.AddRespStructure(PlayFrame{}, openapi.WithHTTPStatus(http.StatusSwitchingProtocols))
	_ = r.AddOperation(getPlay)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
