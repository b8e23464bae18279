package landmark

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/playperu/landmarks/internal/geo"
)

// LoadSQL reads the whole catalog from the landmarks table in position order.
func LoadSQL(ctx context.Context, db *sql.DB) ([]Landmark, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, lng, lat, details_url, images
		FROM landmarks
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying landmarks: %w", err)
	}
	defer rows.Close()

	var out []Landmark
	for rows.Next() {
		var l Landmark
		var (
			at     orb.Point
			images string
		)
		if err := rows.Scan(&l.ID, &l.Name, &at[0], &at[1], &l.DetailsURL, &images); err != nil {
			return nil, fmt.Errorf("scanning landmark: %w", err)
		}
		l.Location = geo.FromPoint(at)
		if err := json.Unmarshal([]byte(images), &l.Images); err != nil {
			return nil, fmt.Errorf("landmark %q: decoding images: %w", l.ID, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading landmarks: %w", err)
	}
	return out, nil
}

// OpenSQLStore loads the catalog from db into an immutable MemoryStore.
func OpenSQLStore(ctx context.Context, db *sql.DB) (*MemoryStore, error) {
	landmarks, err := LoadSQL(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(landmarks) == 0 {
		return nil, ErrEmptyCatalog
	}
	return NewMemoryStore(landmarks)
}
