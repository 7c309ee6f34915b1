package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/search"
)

type AirportFinder interface {
	Search(ctx context.Context, query string) (*models.AirportResponse, error)
	Lookup(ctx context.Context, code string) (*models.Airport, error)
}

type AirportHandler struct {
	finder AirportFinder
}

func NewAirportHandler(finder AirportFinder) *AirportHandler {
	return &AirportHandler{finder: finder}
}

// Search handles GET /api/airports/search?city=.
func (h *AirportHandler) Search(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	if city == "" {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "city query parameter is required")
	}

	resp, err := h.finder.Search(c.Request().Context(), city)
	if err != nil {
		var verr models.ValidationError
		if errors.As(err, &verr) {
			return errorJSON(c, http.StatusBadRequest, "validation_error", verr.Error())
		}
		slog.Error("airport search failed", slog.String("query", city), slog.String("error", err.Error()))
		return errorJSON(c, http.StatusInternalServerError, "airport_search_error", "Failed to search airports")
	}

	return c.JSON(http.StatusOK, resp)
}

// Lookup handles GET /api/airports/:code.
func (h *AirportHandler) Lookup(c echo.Context) error {
	code := c.Param("code")

	airport, err := h.finder.Lookup(c.Request().Context(), code)
	if err != nil {
		var verr models.ValidationError
		switch {
		case errors.As(err, &verr):
			return errorJSON(c, http.StatusBadRequest, "validation_error", verr.Error())
		case errors.Is(err, search.ErrAirportNotFound):
			return errorJSON(c, http.StatusNotFound, "not_found", "Airport "+strings.ToUpper(code)+" not found")
		default:
			slog.Error("airport lookup failed", slog.String("code", code), slog.String("error", err.Error()))
			return errorJSON(c, http.StatusInternalServerError, "airport_lookup_error", "Failed to fetch airport details")
		}
	}

	return c.JSON(http.StatusOK, models.AirportDetailResponse{
		Success: true,
		Data:    *airport,
	})
}
