package place

import (
	"context"

	"route-diary/internal/db"
	"route-diary/internal/shared/geo"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input SavedPlace) (SavedPlace, error) {
	input.ID = uuid.NewString()
	if input.RadiusM <= 0 {
		input.RadiusM = DefaultRadiusM
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO saved_places (id, user_id, name, lat, lng, radius_m)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.UserID, input.Name, input.Lat, input.Lng, input.RadiusM)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return SavedPlace{}, err
	}
	return input, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]SavedPlace, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, lat, lng, radius_m, created_at
		FROM saved_places WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []SavedPlace
	for rows.Next() {
		var p SavedPlace
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Lat, &p.Lng, &p.RadiusM, &p.CreatedAt); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM saved_places WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// NearestName returns the name of the closest saved place whose radius
// covers the coordinate, or "" when none matches.
func (s *Service) NearestName(ctx context.Context, userID string, lat, lng float64) (string, error) {
	places, err := s.List(ctx, userID)
	if err != nil {
		return "", err
	}

	best := ""
	bestDist := 0.0
	for _, p := range places {
		d := geo.HaversineM(lat, lng, p.Lat, p.Lng)
		if d > p.RadiusM {
			continue
		}
		if best == "" || d < bestDist {
			best = p.Name
			bestDist = d
		}
	}
	return best, nil
}
