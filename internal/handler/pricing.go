package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/search"
)

type OfferPricer interface {
	Price(ctx context.Context, ref string) (*models.PricedOfferResponse, error)
}

type PricingHandler struct {
	pricer OfferPricer
}

func NewPricingHandler(pricer OfferPricer) *PricingHandler {
	return &PricingHandler{pricer: pricer}
}

// Price handles GET /api/flights/:ref.
func (h *PricingHandler) Price(c echo.Context) error {
	ref := c.Param("ref")

	resp, err := h.pricer.Price(c.Request().Context(), ref)
	if err != nil {
		if errors.Is(err, search.ErrOfferNotFound) {
			return errorJSON(c, http.StatusNotFound, "not_found", "Flight offer not found or expired")
		}
		slog.Error("offer pricing failed", slog.String("ref", ref), slog.String("error", err.Error()))
		return errorJSON(c, http.StatusInternalServerError, "pricing_error", "Failed to fetch flight details")
	}

	return c.JSON(http.StatusOK, resp)
}
