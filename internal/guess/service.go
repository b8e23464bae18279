// Package guess evaluates guesses against the landmark catalog.
package guess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/scoring"
	"github.com/playperu/landmarks/internal/summary"
)

var (
	ErrUnknownLandmark    = errors.New("unknown landmark")
	ErrSummaryUnavailable = errors.New("summary unavailable")
	ErrNoLandmarks        = errors.New("no landmarks available")
)

// Result is the scored outcome of one guess.
type Result struct {
	IsCorrect           bool                `json:"isCorrect"`
	AchievedPrecision   *scoring.Precision  `json:"achievedPrecision"`
	ActualLocation      geo.Coordinate      `json:"actualLocation"`
	DistanceKm          float64             `json:"distanceKm"`
	WikiSummary         string              `json:"wikiSummary"`
	WikiURL             string              `json:"wikiUrl"`
	AvailablePrecisions []scoring.Precision `json:"availablePrecisions"`
}

// HasRetry reports whether the player may try again at a finer precision.
func (r Result) HasRetry() bool {
	return r.IsCorrect && len(r.AvailablePrecisions) > 0
}

// Service scores guesses. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	landmarks landmark.Store
	summaries summary.Fetcher
	logger    *slog.Logger
}

func NewService(logger *slog.Logger, landmarks landmark.Store, summaries summary.Fetcher) *Service {
	return &Service{landmarks: landmarks, summaries: summaries, logger: logger}
}

// Challenge picks a random landmark and hides its location.
func (s *Service) Challenge(_ context.Context) (landmark.Challenge, error) {
	l, ok := s.landmarks.Random()
	if !ok {
		return landmark.Challenge{}, ErrNoLandmarks
	}
	return l.Challenge(), nil
}

// SubmitGuess validates req, scores it and attaches the landmark summary.
// Validation and lookup happen before any network call.
func (s *Service) SubmitGuess(ctx context.Context, req Request) (Result, error) {
	g, err := req.Validate()
	if err != nil {
		return Result{}, err
	}

	l, ok := s.landmarks.ByID(g.LandmarkID)
	if !ok {
		return Result{}, fmt.Errorf("%q: %w", g.LandmarkID, ErrUnknownLandmark)
	}

	distance := geo.DistanceKm(l.Location, g.Location)

	outcome, err := scoring.Evaluate(distance, g.Precision)
	if err != nil {
		return Result{}, err
	}

	sum, err := s.summaries.FetchSummary(ctx, l.DetailsURL)
	if err != nil {
		s.logger.Error("fetching landmark summary", "landmark", l.ID, "url", l.DetailsURL, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrSummaryUnavailable, err)
	}

	s.logger.Debug("guess scored",
		"landmark", l.ID,
		"precision", g.Precision,
		"distance_km", distance,
		"correct", outcome.IsCorrect,
	)

	return Result{
		IsCorrect:           outcome.IsCorrect,
		AchievedPrecision:   outcome.Achieved,
		ActualLocation:      l.Location,
		DistanceKm:          distance,
		WikiSummary:         sum.Extract,
		WikiURL:             sum.PageURL,
		AvailablePrecisions: outcome.Available,
	}, nil
}
