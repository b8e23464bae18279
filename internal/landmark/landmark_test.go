package landmark_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/landmarks/internal/database"
	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/landmark"
	"github.com/playperu/landmarks/internal/migrations"
)

func builtinStore(t *testing.T) *landmark.MemoryStore {
	t.Helper()
	s, err := landmark.NewMemoryStore(landmark.Builtin())
	require.NoError(t, err)
	return s
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	s := builtinStore(t)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"eiffel", "taj", "statueOfLiberty"}, s.IDs())
}

func TestByID(t *testing.T) {
	s := builtinStore(t)

	l, ok := s.ByID("eiffel")
	require.True(t, ok)
	assert.Equal(t, "Eiffel Tower", l.Name)
	assert.Equal(t, geo.Coordinate{Lng: 2.2945, Lat: 48.8584}, l.Location)

	_, ok = s.ByID("atlantis")
	assert.False(t, ok)
}

func TestByIDReturnsCopies(t *testing.T) {
	s := builtinStore(t)

	l, _ := s.ByID("taj")
	l.Images[0] = "https://example.com/defaced.jpg"

	again, _ := s.ByID("taj")
	assert.NotEqual(t, "https://example.com/defaced.jpg", again.Images[0])
}

func TestRandomUsesPicker(t *testing.T) {
	s := builtinStore(t)

	for i, want := range []string{"eiffel", "taj", "statueOfLiberty"} {
		l, ok := s.WithPicker(func(n int) int {
			assert.Equal(t, 3, n)
			return i
		}).Random()
		require.True(t, ok)
		assert.Equal(t, want, l.ID)
	}
}

func TestRandomCoversCatalog(t *testing.T) {
	s := builtinStore(t)

	seen := map[string]bool{}
	for i := 0; i < 500 && len(seen) < 3; i++ {
		l, ok := s.Random()
		require.True(t, ok)
		seen[l.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestRandomEmpty(t *testing.T) {
	s, err := landmark.NewMemoryStore(nil)
	require.NoError(t, err)

	_, ok := s.Random()
	assert.False(t, ok)
}

func TestConcurrentReads(t *testing.T) {
	s := builtinStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = s.Random()
				_, _ = s.ByID("eiffel")
			}
		}()
	}
	wg.Wait()
}

func TestChallengeOmitsLocation(t *testing.T) {
	l := landmark.Builtin()[0]
	c := l.Challenge()

	assert.Equal(t, l.ID, c.ID)
	assert.Equal(t, l.Name, c.Name)
	assert.Equal(t, l.DetailsURL, c.DetailsURL)
	assert.Equal(t, l.Images, c.Images)
}

func TestNewMemoryStoreRejectsInvalid(t *testing.T) {
	valid := landmark.Builtin()[0]

	tests := []struct {
		name   string
		mutate func(l *landmark.Landmark)
	}{
		{name: "empty id", mutate: func(l *landmark.Landmark) { l.ID = "" }},
		{name: "bad longitude", mutate: func(l *landmark.Landmark) { l.Location.Lng = 200 }},
		{name: "bad latitude", mutate: func(l *landmark.Landmark) { l.Location.Lat = -95 }},
		{name: "relative details url", mutate: func(l *landmark.Landmark) { l.DetailsURL = "/wiki/Eiffel_Tower" }},
		{name: "no images", mutate: func(l *landmark.Landmark) { l.Images = nil }},
		{name: "bad image", mutate: func(l *landmark.Landmark) { l.Images = []string{"not a url"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid
			l.Images = append([]string(nil), valid.Images...)
			tt.mutate(&l)
			_, err := landmark.NewMemoryStore([]landmark.Landmark{l})
			assert.Error(t, err)
		})
	}
}

func TestNewMemoryStoreRejectsDuplicates(t *testing.T) {
	l := landmark.Builtin()[0]
	_, err := landmark.NewMemoryStore([]landmark.Landmark{l, l})
	require.ErrorIs(t, err, landmark.ErrDuplicateID)
}

func TestOpenSQLStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Run(db))

	s, err := landmark.OpenSQLStore(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"eiffel", "taj", "statueOfLiberty"}, s.IDs())

	// The seeded rows match the built-in catalog exactly.
	for _, want := range landmark.Builtin() {
		got, ok := s.ByID(want.ID)
		require.True(t, ok, want.ID)
		assert.Equal(t, want, got)
	}
}

func TestOpenSQLStoreEmpty(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Run(db))
	_, err = db.ExecContext(ctx, `DELETE FROM landmarks`)
	require.NoError(t, err)

	_, err = landmark.OpenSQLStore(ctx, db)
	require.ErrorIs(t, err, landmark.ErrEmptyCatalog)
}

func TestLoadSQLReadsLngBeforeLat(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Run(db))
	_, err = db.ExecContext(ctx, `DELETE FROM landmarks`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO landmarks (id, position, name, lng, lat, details_url, images)
		VALUES ('fiji', 1, 'Suva', 178.4419, -18.1416, 'https://example.com/summary', '["https://example.com/a.jpg"]')
	`)
	require.NoError(t, err)

	got, err := landmark.LoadSQL(ctx, db)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, geo.Coordinate{Lng: 178.4419, Lat: -18.1416}, got[0].Location)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, got[0].Images)
}
