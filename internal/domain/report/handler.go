package report

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	api.GET("/reports/:scanId/pdf", h.GetReportPDF)
}

func (h *Handler) GetReportPDF(c echo.Context) error {
	patientID := auth.UserID(c)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	scanID, err := uuid.Parse(c.Param("scanId"))
	if err != nil {
		// Malformed IDs are indistinguishable from absent scans.
		return echo.NewHTTPError(http.StatusNotFound, "Scan not found")
	}

	reportType := c.QueryParam("type")
	if reportType == "" {
		reportType = TypePatient
	}

	rendered, err := h.svc.Get(c.Request().Context(), patientID, scanID, reportType)
	if errors.Is(err, ErrInvalidType) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Scan not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}

	d := rendered.Data
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pdfContent": rendered.PDFContent,
		"filename":   rendered.Filename,
		"scanData": map[string]interface{}{
			"id":               d.ScanID,
			"scan_type":        d.ScanType,
			"upload_date":      d.UploadDate,
			"stone_count":      d.StoneCount,
			"max_stone_size":   d.MaxStoneSize,
			"risk_level":       d.RiskLevel,
			"confidence_score": d.ConfidenceScore,
		},
	})
}
