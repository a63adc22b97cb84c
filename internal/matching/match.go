package matching

import (
	"github.com/avelezcruz/mealbridge-backend/pkg/geo"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
	"github.com/google/uuid"
)

// Candidate is a profile considered for proximity matching.
type Candidate struct {
	ID       uuid.UUID
	Location *types.Location
}

// Match is a candidate that fell inside the radius.
type Match struct {
	ID         uuid.UUID
	DistanceKm float64
}

// FindNearby returns every candidate within radiusKm of origin (inclusive).
// Candidates without a usable location never match; an unusable origin
// matches nothing. Output order follows input order.
func FindNearby(origin types.Location, candidates []Candidate, radiusKm float64) []Match {
	if !origin.Valid() || radiusKm <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Location == nil || !candidate.Location.Valid() {
			continue
		}
		distance := geo.DistanceKm(origin.Lat, origin.Lng, candidate.Location.Lat, candidate.Location.Lng)
		if distance <= radiusKm {
			matches = append(matches, Match{ID: candidate.ID, DistanceKm: distance})
		}
	}
	return matches
}
