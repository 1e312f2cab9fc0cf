package profile

import (
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

// RegisterRoutes wires the profile endpoints. The doctor directory is public
// and registered on the unauthenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group, public *echo.Group) {
	api.GET("/user-profile", h.GetProfile)
	api.POST("/user-profile", h.CreateProfile)
	api.PUT("/user-profile", h.UpdateProfile)
	public.GET("/doctors", h.ListDoctors)
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	p, err := h.svc.Get(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	// Absent profile is not an error: clients use null to drive onboarding.
	return c.JSON(http.StatusOK, map[string]interface{}{"profile": p})
}

func (h *Handler) CreateProfile(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.UserID = userID
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		if IsValidationError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"profile": p})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), userID, &upd)
	if err == ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"profile": p})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctors": doctors})
}
