package chat

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
	g.POST("/chat", h.Send)
	g.GET("/chat/:sessionId/history", h.History)
	g.DELETE("/chat/:sessionId", h.Reset)
}

func (h *Handler) Send(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("validation failed: "+err.Error()))
	}

	resp, err := h.svc.Send(c.Request().Context(), userID, req)
	if err != nil {
		c.Logger().Error("Handler.Send: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to process message"))
	}
	return c.JSON(http.StatusOK, models.OK(resp))
}

func (h *Handler) History(c echo.Context) error {
	userID := c.Get("userID").(string)

	turns, err := h.svc.History(c.Request().Context(), userID, c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("session not found"))
		}
		c.Logger().Error("Handler.History: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to load history"))
	}
	return c.JSON(http.StatusOK, models.OK(turns))
}

func (h *Handler) Reset(c echo.Context) error {
	userID := c.Get("userID").(string)

	if err := h.svc.Reset(c.Request().Context(), userID, c.Param("sessionId")); err != nil {
		c.Logger().Error("Handler.Reset: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("failed to reset session"))
	}
	return c.JSON(http.StatusOK, models.OK(map[string]string{"message": "session reset"}))
}
