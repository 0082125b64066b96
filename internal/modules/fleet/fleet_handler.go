package fleet

import (
	"errors"
	"net/http"

	"ride-booking/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves the fleet endpoints.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// RegisterRoutes mounts the fleet routes on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/vehicles", h.ListAvailable)
	g.POST("/vehicles/recommend", h.Recommend)

	admin := g.Group("/admin", requireAdmin)
	admin.GET("/fleet", h.ListFleet)
	admin.PUT("/fleet/:vehicleId/availability", h.SetAvailability)
}

// requireAdmin rejects callers whose token carries no admin role.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("userRole").(string); role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, models.Fail(models.ErrForbidden.Error()))
		}
		return next(c)
	}
}

// AvailabilityRequest is the body of PUT /admin/fleet/:vehicleId/availability.
type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

func (h *Handler) ListAvailable(c echo.Context) error {
	vehicles, err := h.svc.ListAvailable(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListAvailable: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to list vehicles"))
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return c.JSON(http.StatusOK, models.OK(vehicles))
}

func (h *Handler) ListFleet(c echo.Context) error {
	vehicles, err := h.svc.ListVehicles(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListFleet: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to list fleet"))
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return c.JSON(http.StatusOK, models.OK(vehicles))
}

func (h *Handler) Recommend(c echo.Context) error {
	var req models.RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("validation failed: "+err.Error()))
	}
	var constraints models.VehicleConstraints
	if req.Constraints != nil {
		constraints = *req.Constraints
	}
	quotes, err := h.svc.Recommend(c.Request().Context(), req.Distance, constraints)
	if err != nil {
		c.Logger().Error("Handler.Recommend: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to recommend vehicles"))
	}
	if quotes == nil {
		quotes = []models.VehicleQuote{}
	}
	return c.JSON(http.StatusOK, models.OK(quotes))
}

func (h *Handler) SetAvailability(c echo.Context) error {
	id := c.Param("vehicleId")
	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("validation failed: "+err.Error()))
	}
	if err := h.svc.SetAvailability(c.Request().Context(), id, *req.Available); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("vehicle not found"))
		}
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusConflict, models.Fail("vehicle is held by a live booking"))
		}
		c.Logger().Error("Handler.SetAvailability: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to update vehicle"))
	}
	return c.NoContent(http.StatusNoContent)
}
