package place

import "time"

// DefaultRadiusM is the match radius used when a saved place has none.
const DefaultRadiusM = 150

// SavedPlace is a user-named location (home, office, campus). Trip
// endpoints within its radius get the place name instead of raw
// coordinates.
type SavedPlace struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	RadiusM   float64   `json:"radius_m"`
	CreatedAt time.Time `json:"created_at"`
}
