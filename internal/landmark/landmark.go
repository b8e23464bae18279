// Package landmark owns the fixed catalog of places players guess.
package landmark

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"

	"github.com/playperu/landmarks/internal/geo"
)

var (
	ErrEmptyCatalog = errors.New("landmark catalog is empty")
	ErrDuplicateID  = errors.New("duplicate landmark id")
)

// Landmark is a named place with its true location.
type Landmark struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Location   geo.Coordinate `json:"location"`
	DetailsURL string         `json:"detailsUrl"`
	Images     []string       `json:"images"`
}

// Challenge is the public view of a Landmark. It never carries the location.
type Challenge struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DetailsURL string   `json:"detailsUrl"`
	Images     []string `json:"images"`
}

// Challenge strips the location.
func (l Landmark) Challenge() Challenge {
	images := make([]string, len(l.Images))
	copy(images, l.Images)
	return Challenge{
		ID:         l.ID,
		Name:       l.Name,
		DetailsURL: l.DetailsURL,
		Images:     images,
	}
}

// Validate checks the invariants every catalog entry must hold.
func (l Landmark) Validate() error {
	if l.ID == "" {
		return errors.New("id is required")
	}
	if err := l.Location.Validate(); err != nil {
		return fmt.Errorf("landmark %q: %w", l.ID, err)
	}
	if !isAbsURL(l.DetailsURL) {
		return fmt.Errorf("landmark %q: invalid detailsUrl %q", l.ID, l.DetailsURL)
	}
	if len(l.Images) == 0 {
		return fmt.Errorf("landmark %q: at least one image is required", l.ID)
	}
	for _, img := range l.Images {
		if !isAbsURL(img) {
			return fmt.Errorf("landmark %q: invalid image url %q", l.ID, img)
		}
	}
	return nil
}

func isAbsURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Store looks landmarks up by id or at random.
type Store interface {
	ByID(id string) (Landmark, bool)
	Random() (Landmark, bool)
}

// MemoryStore is an immutable, concurrency-safe Store. It is built once and
// never written to afterwards, so reads need no locking.
type MemoryStore struct {
	byID  map[string]Landmark
	order []string
	pick  func(n int) int
}

// NewMemoryStore validates the given landmarks and indexes them.
func NewMemoryStore(landmarks []Landmark) (*MemoryStore, error) {
	s := &MemoryStore{
		byID:  make(map[string]Landmark, len(landmarks)),
		order: make([]string, 0, len(landmarks)),
		pick:  rand.IntN,
	}
	for _, l := range landmarks {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.byID[l.ID]; ok {
			return nil, fmt.Errorf("%q: %w", l.ID, ErrDuplicateID)
		}
		s.byID[l.ID] = clone(l)
		s.order = append(s.order, l.ID)
	}
	return s, nil
}

// WithPicker replaces the random index source. pick must return a value in [0, n).
func (s *MemoryStore) WithPicker(pick func(n int) int) *MemoryStore {
	return &MemoryStore{byID: s.byID, order: s.order, pick: pick}
}

func (s *MemoryStore) ByID(id string) (Landmark, bool) {
	l, ok := s.byID[id]
	if !ok {
		return Landmark{}, false
	}
	return clone(l), true
}

// Random picks a landmark uniformly. It reports false only for an empty store.
func (s *MemoryStore) Random() (Landmark, bool) {
	if len(s.order) == 0 {
		return Landmark{}, false
	}
	return clone(s.byID[s.order[s.pick(len(s.order))]]), true
}

// Len returns the number of landmarks in the store.
func (s *MemoryStore) Len() int { return len(s.order) }

// IDs returns landmark ids in catalog order.
func (s *MemoryStore) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func clone(l Landmark) Landmark {
	images := make([]string, len(l.Images))
	copy(images, l.Images)
	l.Images = images
	return l
}
