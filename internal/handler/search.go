package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/skyfinder/internal/models"
)

type FlightSearcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
}

type SearchHandler struct {
	searcher FlightSearcher
}

func NewSearchHandler(searcher FlightSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles POST /api/flights/search.
func (h *SearchHandler) Search(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+bindMessage(err))
	}

	resp, err := h.searcher.Search(c.Request().Context(), req)
	if err != nil {
		var verr models.ValidationError
		if errors.As(err, &verr) {
			return errorJSON(c, http.StatusBadRequest, "validation_error", verr.Error())
		}
		slog.Error("flight search failed", slog.String("error", err.Error()))
		return errorJSON(c, http.StatusInternalServerError, "search_error", "Failed to search flights")
	}

	return c.JSON(http.StatusOK, resp)
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
		Code:    status,
	})
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
