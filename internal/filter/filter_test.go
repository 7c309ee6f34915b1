package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/skyfinder/internal/models"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func offers() []models.FlightOffer {
	return []models.FlightOffer{
		{ID: "a", AirlineCode: "6E", Price: 3200, Stops: 0, DepartTime: "06:00"},
		{ID: "b", AirlineCode: "AI", Price: 4100, Stops: 1, DepartTime: "09:30"},
		{ID: "c", AirlineCode: "SG", Price: 4100, Stops: 0, DepartTime: "14:00"},
		{ID: "d", AirlineCode: "UK", Price: 5600, Stops: 2, DepartTime: "21:45"},
	}
}

func ids(in []models.FlightOffer) []string {
	out := make([]string, len(in))
	for i, o := range in {
		out[i] = o.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filters *models.SearchFilters
		want    []string
	}{
		{"nil filters", nil, []string{"a", "b", "c", "d"}},
		{"empty filters", &models.SearchFilters{}, []string{"a", "b", "c", "d"}},
		{"price range", &models.SearchFilters{PriceMin: intPtr(4000), PriceMax: intPtr(5000)}, []string{"b", "c"}},
		{"non-stop only", &models.SearchFilters{MaxStops: intPtr(0)}, []string{"a", "c"}},
		{"airlines", &models.SearchFilters{Airlines: []string{"AI", "UK"}}, []string{"b", "d"}},
		{"departure window", &models.SearchFilters{DepartureTimeMin: strPtr("09:00"), DepartureTimeMax: strPtr("14:00")}, []string{"b", "c"}},
		{"combined", &models.SearchFilters{MaxStops: intPtr(1), PriceMax: intPtr(4100), Airlines: []string{"SG", "AI"}}, []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(offers(), tt.filters)))
		})
	}
}

func TestApply_UnparseableDepartureExcludedByWindow(t *testing.T) {
	in := []models.FlightOffer{{ID: "x", DepartTime: "??"}}
	assert.Empty(t, Apply(in, &models.SearchFilters{DepartureTimeMin: strPtr("00:00")}))
}

func TestPaginate(t *testing.T) {
	all := offers()

	p := Paginate(all, 0, 0)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 4, p.PageSize)
	assert.Len(t, p.Items, 4)

	p = Paginate(all, 2, 3)
	assert.Equal(t, []string{"d"}, ids(p.Items))
	assert.Equal(t, 4, p.Total)

	p = Paginate(all, 1, 2)
	assert.Equal(t, []string{"a", "b"}, ids(p.Items))

	p = Paginate(all, 5, 2)
	require.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 5, p.Page)
}
