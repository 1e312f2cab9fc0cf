package appointment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/calcifyx/calcifyx/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.PUT("/appointments", h.UpdateAppointment)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	appts, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	if appts == nil {
		appts = []*WithParties{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": appts})
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.Book(c.Request().Context(), userID, &req)
	if errors.Is(err, ErrMissingFields) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointment": a})
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.Update(c.Request().Context(), userID, &req)
	if errors.Is(err, ErrMissingID) || errors.Is(err, ErrInvalidStatus) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointment": a})
}
