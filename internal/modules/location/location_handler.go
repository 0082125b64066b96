package location

import (
	"errors"
	"net/http"

	"ride-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/location/geocode", h.Geocode)
	g.POST("/location/route", h.Route)
}

func (h *Handler) Geocode(c echo.Context) error {
	var req models.GeocodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("validation failed: "+err.Error()))
	}
	loc, err := h.svc.Geocode(c.Request().Context(), req.Location)
	if err != nil {
		if errors.Is(err, models.ErrGeocodeNoMatch) {
			return c.JSON(http.StatusNotFound, models.Fail("location not found"))
		}
		c.Logger().Error("Handler.Geocode: ", err)
		return c.JSON(http.StatusBadGateway, models.Fail("geocoding service unavailable"))
	}
	return c.JSON(http.StatusOK, models.OK(loc))
}

func (h *Handler) Route(c echo.Context) error {
	var req models.RouteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("validation failed: "+err.Error()))
	}
	route, err := h.svc.Route(c.Request().Context(), req.Pickup, req.Dropoff)
	if err != nil {
		if errors.Is(err, models.ErrRouteUnavailable) {
			return c.JSON(http.StatusUnprocessableEntity, models.Fail("no route between the given locations"))
		}
		c.Logger().Error("Handler.Route: ", err)
		return c.JSON(http.StatusBadGateway, models.Fail("routing service unavailable"))
	}
	return c.JSON(http.StatusOK, models.OK(route))
}
