package scan

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/calcifyx/calcifyx/internal/platform/auth"
	"github.com/calcifyx/calcifyx/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/scans", h.ListScans)
	api.POST("/scans", h.SubmitScan)
	api.GET("/scans/export", h.ExportScans)
}

func (h *Handler) ListScans(c echo.Context) error {
	patientID := auth.UserID(c)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	scans, err := h.svc.List(c.Request().Context(), patientID, pagination.FromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	if scans == nil {
		scans = []*WithDetection{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"scans": scans})
}

func (h *Handler) SubmitScan(c echo.Context) error {
	patientID := auth.UserID(c)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sc, err := h.svc.Submit(c.Request().Context(), patientID, &req)
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrColoredImage) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		// Validation failures carry a human-readable message; anything that
		// reached the store is a 500.
		if sc == nil && isValidationError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"scan": sc})
}

func (h *Handler) ExportScans(c echo.Context) error {
	patientID := auth.UserID(c)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	// The export walks the full history page by page.
	var scans []*WithDetection
	p := pagination.Params{Limit: pagination.MaxLimit}
	for {
		page, err := h.svc.List(c.Request().Context(), patientID, p)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
		}
		scans = append(scans, page...)
		if len(page) < p.Limit {
			break
		}
		p.Offset += p.Limit
	}

	buf, err := BuildWorkbook(scans)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+ExportFilename(time.Now())+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
