package fallback

import (
	"strings"

	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/reference"
)

const (
	DefaultAirportLimit = 10
	minAirportQuery     = 2
)

// Airports filters the static airport table by a case-insensitive substring
// of code, name, city or country. An exact code match is listed first. An
// empty or too-short query returns the head of the table.
func Airports(query string, limit int) []models.Airport {
	if limit <= 0 {
		limit = DefaultAirportLimit
	}
	all := reference.Airports()

	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < minAirportQuery {
		return all[:min(limit, len(all))]
	}

	var exact, partial []models.Airport
	for _, a := range all {
		switch {
		case strings.ToLower(a.IATACode) == q:
			exact = append(exact, a)
		case strings.Contains(strings.ToLower(a.IATACode), q),
			strings.Contains(strings.ToLower(a.Name), q),
			strings.Contains(strings.ToLower(a.CityName), q),
			strings.Contains(strings.ToLower(a.CountryName), q):
			partial = append(partial, a)
		}
	}

	out := append(exact, partial...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
