package places

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresHiddenSpotStore reads curated hidden spots from PostgreSQL.
type PostgresHiddenSpotStore struct {
	pool *pgxpool.Pool
}

// NewPostgresHiddenSpotStore creates a Postgres-backed hidden-spot store.
func NewPostgresHiddenSpotStore(pool *pgxpool.Pool) *PostgresHiddenSpotStore {
	return &PostgresHiddenSpotStore{pool: pool}
}

// HiddenSpots returns curated spots for the destination whose tags overlap
// the requested interests. An empty interest list matches everything.
func (r *PostgresHiddenSpotStore) HiddenSpots(ctx context.Context, destination string, interests []string) ([]Spot, error) {
	query := `
		SELECT name, category, lat, lon, avg_visit_hours, estimated_cost, rating, tags
		FROM hidden_spots
		WHERE lower(destination) = lower($1)
		  AND (cardinality($2::text[]) = 0 OR tags && $2::text[])
		ORDER BY rating DESC, estimated_cost ASC
	`

	lowered := make([]string, len(interests))
	for i, interest := range interests {
		lowered[i] = strings.ToLower(interest)
	}

	rows, err := r.pool.Query(ctx, query, destination, lowered)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []Spot
	for rows.Next() {
		var s Spot
		if err := rows.Scan(
			&s.Name,
			&s.Category,
			&s.Location.Lat,
			&s.Location.Lon,
			&s.AvgVisitHours,
			&s.EstimatedCost,
			&s.Rating,
			&s.Tags,
		); err != nil {
			return nil, err
		}
		s.IsHidden = true
		spots = append(spots, s)
	}

	return spots, rows.Err()
}
