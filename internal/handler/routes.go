package handler

import "github.com/labstack/echo/v4"

func Register(e *echo.Echo, flights *SearchHandler, pricing *PricingHandler, airports *AirportHandler, health *HealthHandler) {
	api := e.Group("/api")
	api.GET("/health", health.Health)
	api.POST("/flights/search", flights.Search)
	api.GET("/flights/:ref", pricing.Price)
	api.GET("/airports/search", airports.Search)
	api.GET("/airports/:code", airports.Lookup)
}
