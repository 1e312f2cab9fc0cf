package recommendation

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
	api.GET("/recommendations", h.ListRecommendations)
	api.POST("/recommendations", h.CreateRecommendation)
}

func (h *Handler) ListRecommendations(c echo.Context) error {
	patientID := auth.UserID(c)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	recs, err := h.svc.List(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	if recs == nil {
		recs = []*Recommendation{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"recommendations": recs})
}

func (h *Handler) CreateRecommendation(c echo.Context) error {
	patientID := auth.UserID(c)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.svc.Create(c.Request().Context(), patientID, &req)
	if errors.Is(err, ErrMissingFields) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"recommendation": rec})
}
