package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/guess"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/scoring"
)

// StateKey is the key the current round is stored under.
const StateKey = "gameState"

// StateStore is a small key/value store for client state.
type StateStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// record is the persisted form of a Round.
type record struct {
	ID                  string              `json:"id,omitempty"`
	Landmark            *landmark.Challenge `json:"landmark"`
	GuessLocation       *geo.Coordinate     `json:"guessLocation"`
	Result              *guess.Result       `json:"result"`
	SelectedPrecision   scoring.Precision   `json:"selectedPrecision"`
	AvailablePrecisions []scoring.Precision `json:"availablePrecisions"`
}

func (g *Game) save() {
	r := g.round
	lm := r.Landmark
	data, err := json.Marshal(record{
		ID:                  r.ID,
		Landmark:            &lm,
		GuessLocation:       r.Pending,
		Result:              r.Result,
		SelectedPrecision:   r.Selected,
		AvailablePrecisions: r.Available,
	})
	if err == nil {
		err = g.store.Set(StateKey, data)
	}
	if err != nil {
		g.logger.Warn("saving game state", "error", err)
	}
}

// Resume restores the round saved by a previous run. It reports false when
// nothing usable was stored; a corrupt or inconsistent record is deleted.
func (g *Game) Resume() (bool, error) {
	data, ok, err := g.store.Get(StateKey)
	if err != nil {
		return false, fmt.Errorf("reading game state: %w", err)
	}
	if !ok {
		return false, nil
	}

	r, err := decodeRound(data)
	if err != nil {
		g.logger.Warn("discarding saved game state", "error", err)
		if err := g.store.Delete(StateKey); err != nil {
			return false, fmt.Errorf("deleting game state: %w", err)
		}
		return false, nil
	}
	g.round = r
	return true, nil
}

func decodeRound(data []byte) (*Round, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Landmark == nil || rec.Landmark.ID == "" {
		return nil, errors.New("missing landmark")
	}
	if !rec.SelectedPrecision.Valid() {
		return nil, fmt.Errorf("selected precision %q: %w", rec.SelectedPrecision, scoring.ErrUnknownPrecision)
	}
	for _, p := range rec.AvailablePrecisions {
		if !p.Valid() {
			return nil, fmt.Errorf("available precision %q: %w", p, scoring.ErrUnknownPrecision)
		}
	}
	if rec.GuessLocation != nil {
		if err := rec.GuessLocation.Validate(); err != nil {
			return nil, err
		}
	}
	if res := rec.Result; res != nil {
		// achievedPrecision is null exactly when the guess missed.
		if (res.AchievedPrecision != nil) != res.IsCorrect {
			return nil, errors.New("achieved precision disagrees with correctness")
		}
		if res.AchievedPrecision != nil && !res.AchievedPrecision.Valid() {
			return nil, fmt.Errorf("achieved precision %q: %w", *res.AchievedPrecision, scoring.ErrUnknownPrecision)
		}
	}

	r := &Round{
		ID:        rec.ID,
		Landmark:  *rec.Landmark,
		Selected:  rec.SelectedPrecision,
		Available: rec.AvailablePrecisions,
		Pending:   rec.GuessLocation,
		Result:    rec.Result,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	switch {
	case r.Result != nil && !r.Result.HasRetry():
		r.State = RoundEnded
	case r.Result != nil && !slices.Equal(r.Available, r.Result.AvailablePrecisions):
		return nil, errors.New("available precisions disagree with last result")
	default:
		r.State = AwaitingGuess
	}
	if r.State == AwaitingGuess && !slices.Contains(r.Available, r.Selected) {
		return nil, fmt.Errorf("selected precision %q: %w", r.Selected, ErrPrecisionUnavailable)
	}
	return r, nil
}

// MemoryStore keeps state in a map.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return slices.Clone(v), ok, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStore keeps each key in its own JSON file under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes through a temp file so a crash never leaves a half-written value.
func (s *FileStore) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
