// Package session drives one player's rounds from the client side.
//
// A round is in one of two states. While AwaitingGuess the player may move
// the pending location, pick any still-available precision and submit. A
// correct answer with finer tiers left keeps the round open at the next finer
// tier; anything else ends it. Only PlayAgain leaves RoundEnded.
//
// A Game is not safe for concurrent use: it models a single user performing
// one action at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/scoring"
)

var (
	ErrNoRound              = errors.New("no round loaded")
	ErrRoundEnded           = errors.New("round has ended")
	ErrRoundInProgress      = errors.New("round is still in progress")
	ErrNoPendingLocation    = errors.New("no location selected")
	ErrPrecisionUnavailable = errors.New("precision not available")
)

type State int

const (
	AwaitingGuess State = iota
	RoundEnded
)

func (s State) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting guess"
	case RoundEnded:
		return "round ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Client is the game API as seen from the player's side.
type Client interface {
	Challenge(ctx context.Context) (landmark.Challenge, error)
	SubmitGuess(ctx context.Context, req guess.Request) (guess.Result, error)
}

// Round is a snapshot of the current round.
type Round struct {
	ID        string
	Landmark  landmark.Challenge
	State     State
	Selected  scoring.Precision
	Available []scoring.Precision
	Pending   *geo.Coordinate
	Result    *guess.Result
}

func newRound(c landmark.Challenge) *Round {
	return &Round{
		ID:        uuid.NewString(),
		Landmark:  c,
		State:     AwaitingGuess,
		Selected:  scoring.Coarsest(),
		Available: scoring.All(),
	}
}

func (r *Round) clone() Round {
	out := *r
	out.Available = slices.Clone(r.Available)
	out.Landmark.Images = slices.Clone(r.Landmark.Images)
	if r.Pending != nil {
		p := *r.Pending
		out.Pending = &p
	}
	if r.Result != nil {
		res := *r.Result
		res.AvailablePrecisions = slices.Clone(r.Result.AvailablePrecisions)
		out.Result = &res
	}
	return out
}

// Game owns the current round and persists it after every transition.
type Game struct {
	client Client
	store  StateStore
	logger *slog.Logger
	round  *Round
}

func NewGame(logger *slog.Logger, client Client, store StateStore) *Game {
	return &Game{client: client, store: store, logger: logger}
}

// Round returns a copy of the current round. ok is false before the first
// round has been started or resumed.
func (g *Game) Round() (r Round, ok bool) {
	if g.round == nil {
		return Round{}, false
	}
	return g.round.clone(), true
}

// Start loads a fresh challenge, replacing any current round.
func (g *Game) Start(ctx context.Context) error {
	c, err := g.client.Challenge(ctx)
	if err != nil {
		return fmt.Errorf("loading challenge: %w", err)
	}
	g.round = newRound(c)
	g.save()
	return nil
}

// SelectLocation sets the pending guess location.
func (g *Game) SelectLocation(c geo.Coordinate) error {
	if err := g.awaiting(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	g.round.Pending = &c
	g.save()
	return nil
}

// SelectPrecision picks the tier the next submission is scored at.
func (g *Game) SelectPrecision(p scoring.Precision) error {
	if err := g.awaiting(); err != nil {
		return err
	}
	if !slices.Contains(g.round.Available, p) {
		return fmt.Errorf("%q: %w", p, ErrPrecisionUnavailable)
	}
	g.round.Selected = p
	g.save()
	return nil
}

// Submit scores the pending location at the selected precision. If the call
// fails the round is left exactly as it was.
func (g *Game) Submit(ctx context.Context) (guess.Result, error) {
	if err := g.awaiting(); err != nil {
		return guess.Result{}, err
	}
	if g.round.Pending == nil {
		return guess.Result{}, ErrNoPendingLocation
	}

	res, err := g.client.SubmitGuess(ctx, guess.NewRequest(g.round.Landmark.ID, *g.round.Pending, g.round.Selected))
	if err != nil {
		return guess.Result{}, err
	}

	r := g.round
	r.Result = &res
	if res.HasRetry() {
		r.Available = slices.Clone(res.AvailablePrecisions)
		r.Selected = r.Available[0]
		r.Pending = nil
	} else {
		r.State = RoundEnded
	}

	g.logger.Debug("guess submitted",
		"round", r.ID,
		"landmark", r.Landmark.ID,
		"correct", res.IsCorrect,
		"state", r.State.String(),
	)
	g.save()
	return res, nil
}

// PlayAgain replaces an ended round with a new one.
func (g *Game) PlayAgain(ctx context.Context) error {
	if g.round == nil {
		return ErrNoRound
	}
	if g.round.State != RoundEnded {
		return ErrRoundInProgress
	}
	return g.Start(ctx)
}

func (g *Game) awaiting() error {
	if g.round == nil {
		return ErrNoRound
	}
	if g.round.State == RoundEnded {
		return ErrRoundEnded
	}
	return nil
}
