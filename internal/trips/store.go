package trips

import (
	"context"
	"encoding/json"
	"errors"

	"route-diary/internal/classify"
	"route-diary/internal/db"

	"github.com/google/uuid"
)

// ErrStoreUnavailable means no database connection exists. Writes fail
// with it so the gateway queues the trip instead of losing it.
var ErrStoreUnavailable = errors.New("trips: store unavailable")

// Store persists trip records in Postgres. A Store over a nil Querier is
// valid: every operation fails with ErrStoreUnavailable.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

// Insert writes one detected trip for userID. The trip keeps its ID when
// it already has one so queued retries stay idempotent upserts.
func (s *Store) Insert(ctx context.Context, userID string, trip DetectedTrip) (Record, error) {
	if s.db == nil {
		return Record{}, ErrStoreUnavailable
	}
	rec := NewRecord(userID, trip)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	path, err := json.Marshal(rec.Path)
	if err != nil {
		return Record{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, user_id, origin_name, origin_lat, origin_lng,
			destination_name, destination_lat, destination_lng,
			start_time, end_time, distance_km, duration_minutes, mode,
			purpose, companion, is_auto_detected, is_confirmed, path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO UPDATE SET end_time=EXCLUDED.end_time
		RETURNING created_at
	`, rec.ID, rec.UserID, rec.Origin.Name, rec.Origin.Lat, rec.Origin.Lng,
		rec.Destination.Name, rec.Destination.Lat, rec.Destination.Lng,
		rec.StartTime, rec.EndTime, rec.DistanceKm, rec.DurationMinutes, string(rec.Mode),
		rec.Purpose, rec.Companion, rec.IsAutoDetected, rec.IsConfirmed, path)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns the user's trips, most recent first.
func (s *Store) List(ctx context.Context, userID string) ([]Record, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, origin_name, origin_lat, origin_lng,
			destination_name, destination_lat, destination_lng,
			start_time, end_time, distance_km, duration_minutes, mode,
			purpose, companion, is_auto_detected, is_confirmed, path, created_at
		FROM trips WHERE user_id=$1
		ORDER BY start_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns one trip owned by userID.
func (s *Store) Get(ctx context.Context, userID, id string) (Record, error) {
	if s.db == nil {
		return Record{}, ErrStoreUnavailable
	}
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, origin_name, origin_lat, origin_lng,
			destination_name, destination_lat, destination_lng,
			start_time, end_time, distance_km, duration_minutes, mode,
			purpose, companion, is_auto_detected, is_confirmed, path, created_at
		FROM trips WHERE id=$1 AND user_id=$2
	`, id, userID)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var mode string
	var path []byte
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Origin.Name, &rec.Origin.Lat, &rec.Origin.Lng,
		&rec.Destination.Name, &rec.Destination.Lat, &rec.Destination.Lng,
		&rec.StartTime, &rec.EndTime, &rec.DistanceKm, &rec.DurationMinutes, &mode,
		&rec.Purpose, &rec.Companion, &rec.IsAutoDetected, &rec.IsConfirmed, &path, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	rec.Mode = classify.Mode(mode)
	if len(path) > 0 {
		_ = json.Unmarshal(path, &rec.Path)
	}
	return rec, nil
}
