package booking

import (
	"errors"
	"net/http"
	"strconv"

	"ride-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for bookings.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// RegisterRoutes mounts the booking routes; the static paths precede :bookingId.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings", h.Create)
	g.GET("/bookings/my", h.ListMine)
	g.GET("/bookings/stats", h.Stats)
	g.GET("/bookings/:bookingId", h.Get)
	g.POST("/bookings/:bookingId/cancel", h.Cancel)
}

func userEmail(c echo.Context) string {
	email, _ := c.Get("userEmail").(string)
	return email
}

func (h *Handler) Create(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("validation failed: "+err.Error()))
	}

	b, err := h.svc.Create(c.Request().Context(), userID, userEmail(c), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("vehicle not found"))
		case errors.Is(err, models.ErrVehicleUnavailable):
			return c.JSON(http.StatusConflict, models.Fail(models.ErrVehicleUnavailable.Error()))
		case errors.Is(err, models.ErrRouteUnavailable):
			return c.JSON(http.StatusUnprocessableEntity, models.Fail("no route between the given locations"))
		}
		c.Logger().Error("Handler.Create: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to create booking"))
	}
	return c.JSON(http.StatusCreated, models.OK(b))
}

func (h *Handler) ListMine(c echo.Context) error {
	userID := c.Get("userID").(string)

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	bookings, err := h.svc.ListForUser(c.Request().Context(), userID, c.QueryParam("status"), limit)
	if err != nil {
		if errors.Is(err, models.ErrInvalidBookingStatus) {
			return c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		}
		c.Logger().Error("Handler.ListMine: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to list bookings"))
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return c.JSON(http.StatusOK, models.OK(bookings))
}

func (h *Handler) Get(c echo.Context) error {
	userID := c.Get("userID").(string)

	b, err := h.svc.Get(c.Request().Context(), userID, c.Param("bookingId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("booking not found"))
		}
		c.Logger().Error("Handler.Get: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to get booking"))
	}
	return c.JSON(http.StatusOK, models.OK(b))
}

func (h *Handler) Cancel(c echo.Context) error {
	userID := c.Get("userID").(string)

	b, err := h.svc.Cancel(c.Request().Context(), userID, userEmail(c), c.Param("bookingId"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("booking not found"))
		case errors.Is(err, models.ErrBookingNotCancellable), errors.Is(err, models.ErrConflict):
			return c.JSON(http.StatusConflict, models.Fail(models.ErrBookingNotCancellable.Error()))
		}
		c.Logger().Error("Handler.Cancel: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to cancel booking"))
	}
	return c.JSON(http.StatusOK, models.OK(b))
}

func (h *Handler) Stats(c echo.Context) error {
	userID := c.Get("userID").(string)

	stats, err := h.svc.Stats(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Error("Handler.Stats: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to load stats"))
	}
	return c.JSON(http.StatusOK, models.OK(stats))
}
