package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// The generated plan is stored as a jsonb document.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL itinerary repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByUserAndID retrieves an itinerary by user ID and itinerary ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, itineraryID string) (*Record, error) {
	query := `
		SELECT
			id, user_id, origin, destination,
			start_date, end_date, total_cost, plan, created_at
		FROM itineraries
		WHERE id = $1 AND user_id = $2
	`

	var record Record
	var planDoc []byte

	err := r.pool.QueryRow(ctx, query, itineraryID, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.Origin,
		&record.Destination,
		&record.StartDate,
		&record.EndDate,
		&record.TotalCost,
		&planDoc,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(planDoc, &record.Plan); err != nil {
		return nil, fmt.Errorf("decoding stored plan: %w", err)
	}

	return &record, nil
}

// List retrieves itineraries for a user with pagination, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT
			id, user_id, origin, destination,
			start_date, end_date, total_cost, plan, created_at
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var record Record
		var planDoc []byte
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Origin,
			&record.Destination,
			&record.StartDate,
			&record.EndDate,
			&record.TotalCost,
			&planDoc,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(planDoc, &record.Plan); err != nil {
			return nil, fmt.Errorf("decoding stored plan: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: records,
	}

	// If we got more results than the limit, there are more pages
	if len(records) > limit {
		result.Items = records[:limit]
		result.NextCursor = records[limit-1].ID
	}

	return result, nil
}

// Create stores a new itinerary record.
func (r *PostgresRepository) Create(ctx context.Context, record *Record) error {
	planDoc, err := json.Marshal(record.Plan)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	query := `
		INSERT INTO itineraries (
			id, user_id, origin, destination,
			start_date, end_date, total_cost, plan, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Origin,
		record.Destination,
		record.StartDate,
		record.EndDate,
		record.TotalCost,
		planDoc,
		record.CreatedAt,
	)
	return err
}

// Delete removes an itinerary owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, userID, itineraryID string) error {
	query := `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`
	result, err := r.pool.Exec(ctx, query, itineraryID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrItineraryNotFound
	}
	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
