// Package filter narrows and pages an already price-sorted offer list. It
// never reorders offers.
package filter

import (
	"slices"

	"github.com/dharmasatrya/skyfinder/internal/localtime"
	"github.com/dharmasatrya/skyfinder/internal/models"
)

// Apply keeps offers that satisfy every set filter, preserving order.
func Apply(offers []models.FlightOffer, filters *models.SearchFilters) []models.FlightOffer {
	if filters == nil {
		return offers
	}

	result := make([]models.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if matches(o, filters) {
			result = append(result, o)
		}
	}
	return result
}

func matches(o models.FlightOffer, filters *models.SearchFilters) bool {
	if filters.PriceMin != nil && o.Price < *filters.PriceMin {
		return false
	}
	if filters.PriceMax != nil && o.Price > *filters.PriceMax {
		return false
	}

	if filters.MaxStops != nil && o.Stops > *filters.MaxStops {
		return false
	}

	if len(filters.Airlines) > 0 && !slices.Contains(filters.Airlines, o.AirlineCode) {
		return false
	}

	if filters.DepartureTimeMin == nil && filters.DepartureTimeMax == nil {
		return true
	}
	dep, err := localtime.MinutesOfDay(o.DepartTime)
	if err != nil {
		return false
	}
	if filters.DepartureTimeMin != nil {
		if minTime, err := localtime.MinutesOfDay(*filters.DepartureTimeMin); err == nil && dep < minTime {
			return false
		}
	}
	if filters.DepartureTimeMax != nil {
		if maxTime, err := localtime.MinutesOfDay(*filters.DepartureTimeMax); err == nil && dep > maxTime {
			return false
		}
	}

	return true
}

type Page struct {
	Items    []models.FlightOffer
	Total    int
	Page     int
	PageSize int
}

// Paginate slices a 1-based page. A zero page size returns everything as
// page 1; a page past the end is empty.
func Paginate(offers []models.FlightOffer, page, pageSize int) Page {
	total := len(offers)
	if pageSize <= 0 {
		return Page{Items: offers, Total: total, Page: 1, PageSize: total}
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= total {
		return Page{Items: []models.FlightOffer{}, Total: total, Page: page, PageSize: pageSize}
	}
	end := min(start+pageSize, total)

	return Page{Items: offers[start:end], Total: total, Page: page, PageSize: pageSize}
}
