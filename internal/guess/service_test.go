package guess_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/scoring"
	"github.com/playperu/landmarks/internal/summary"
)

var eiffel = geo.Coordinate{Lng: 2.2945, Lat: 48.8584}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeFetcher) FetchSummary(_ context.Context, pageURL string) (summary.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pageURL)
	if f.err != nil {
		return summary.Summary{}, f.err
	}
	return summary.Summary{Extract: "extract for " + pageURL, PageURL: "https://en.wikipedia.org/wiki/Page"}, nil
}

func newService(t *testing.T, f summary.Fetcher) *guess.Service {
	t.Helper()
	store, err := landmark.NewMemoryStore(landmark.Builtin())
	require.NoError(t, err)
	return guess.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store, f)
}

func precisionPtr(p scoring.Precision) *scoring.Precision { return &p }

func TestSubmitGuess(t *testing.T) {
	tests := []struct {
		name          string
		at            geo.Coordinate
		precision     scoring.Precision
		wantCorrect   bool
		wantAchieved  *scoring.Precision
		wantAvailable []scoring.Precision
	}{
		{
			name:          "exact hit leaves nothing finer",
			at:            eiffel,
			precision:     scoring.Exact,
			wantCorrect:   true,
			wantAchieved:  precisionPtr(scoring.Exact),
			wantAvailable: []scoring.Precision{},
		},
		{
			name:          "vague hit offers narrow then exact",
			at:            eiffel,
			precision:     scoring.Vague,
			wantCorrect:   true,
			wantAchieved:  precisionPtr(scoring.Vague),
			wantAvailable: []scoring.Precision{scoring.Narrow, scoring.Exact},
		},
		{
			name:          "narrow hit about 75km away",
			at:            geo.Coordinate{Lng: eiffel.Lng, Lat: eiffel.Lat + 0.675},
			precision:     scoring.Narrow,
			wantCorrect:   true,
			wantAchieved:  precisionPtr(scoring.Narrow),
			wantAvailable: []scoring.Precision{scoring.Exact},
		},
		{
			name:          "exact miss about 75km away",
			at:            geo.Coordinate{Lng: eiffel.Lng, Lat: eiffel.Lat + 0.675},
			precision:     scoring.Exact,
			wantAvailable: []scoring.Precision{},
		},
		{
			name:          "vague miss on another continent",
			at:            geo.Coordinate{Lng: -74.0445, Lat: 40.6892},
			precision:     scoring.Vague,
			wantAvailable: []scoring.Precision{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{}
			svc := newService(t, f)

			res, err := svc.SubmitGuess(context.Background(), guess.NewRequest("eiffel", tt.at, tt.precision))
			require.NoError(t, err)

			assert.Equal(t, tt.wantCorrect, res.IsCorrect)
			assert.Equal(t, tt.wantAchieved, res.AchievedPrecision)
			assert.Equal(t, tt.wantAvailable, res.AvailablePrecisions)
			assert.Equal(t, eiffel, res.ActualLocation)
			assert.InDelta(t, geo.DistanceKm(eiffel, tt.at), res.DistanceKm, 1e-9)
			assert.Equal(t, "https://en.wikipedia.org/wiki/Page", res.WikiURL)
			assert.Equal(t, []string{"https://en.wikipedia.org/api/rest_v1/page/summary/Eiffel_Tower"}, f.calls)
		})
	}
}

func TestSubmitGuessFarMiss(t *testing.T) {
	svc := newService(t, &fakeFetcher{})

	// Roughly 1500 km south of the Taj Mahal.
	res, err := svc.SubmitGuess(context.Background(),
		guess.NewRequest("taj", geo.Coordinate{Lng: 78.0421, Lat: 27.1751 - 13.49}, scoring.Vague))
	require.NoError(t, err)

	assert.False(t, res.IsCorrect)
	assert.Nil(t, res.AchievedPrecision)
	assert.InDelta(t, 1500, res.DistanceKm, 5)
	assert.False(t, res.HasRetry())
}

func TestSubmitGuessUnknownLandmark(t *testing.T) {
	f := &fakeFetcher{}
	svc := newService(t, f)

	_, err := svc.SubmitGuess(context.Background(), guess.NewRequest("atlantis", eiffel, scoring.Exact))
	require.ErrorIs(t, err, guess.ErrUnknownLandmark)
	assert.Empty(t, f.calls)
}

func TestSubmitGuessInvalidRequest(t *testing.T) {
	f := &fakeFetcher{}
	svc := newService(t, f)

	_, err := svc.SubmitGuess(context.Background(), guess.NewRequest("eiffel", geo.Coordinate{Lng: 200, Lat: 0}, scoring.Exact))

	var ve *guess.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Empty(t, f.calls)
}

func TestSubmitGuessSummaryFailure(t *testing.T) {
	boom := errors.New("upstream down")
	svc := newService(t, &fakeFetcher{err: boom})

	res, err := svc.SubmitGuess(context.Background(), guess.NewRequest("eiffel", eiffel, scoring.Exact))
	require.ErrorIs(t, err, guess.ErrSummaryUnavailable)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, guess.Result{}, res)
}

func TestResultJSON(t *testing.T) {
	svc := newService(t, &fakeFetcher{})

	miss, err := svc.SubmitGuess(context.Background(), guess.NewRequest("eiffel", geo.Coordinate{Lng: 0, Lat: 0}, scoring.Exact))
	require.NoError(t, err)

	data, err := json.Marshal(miss)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `null`, string(raw["achievedPrecision"]))
	assert.JSONEq(t, `[]`, string(raw["availablePrecisions"]))
	assert.JSONEq(t, `{"lng":2.2945,"lat":48.8584}`, string(raw["actualLocation"]))
	for _, key := range []string{"isCorrect", "distanceKm", "wikiSummary", "wikiUrl"} {
		assert.Contains(t, raw, key)
	}

	var back guess.Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, miss, back)
}

func TestChallenge(t *testing.T) {
	svc := newService(t, &fakeFetcher{})

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c, err := svc.Challenge(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, c.Images)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 3)
}

type emptyStore struct{}

func (emptyStore) ByID(string) (landmark.Landmark, bool) { return landmark.Landmark{}, false }
func (emptyStore) Random() (landmark.Landmark, bool)     { return landmark.Landmark{}, false }

func TestChallengeEmptyCatalog(t *testing.T) {
	svc := guess.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), emptyStore{}, &fakeFetcher{})

	_, err := svc.Challenge(context.Background())
	require.ErrorIs(t, err, guess.ErrNoLandmarks)
}
