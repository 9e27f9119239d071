package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workload-service/internal/service"
)

// ReportsHandler serves aggregate snapshots to chart/report consumers.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Workload handles GET /reports/workload.
func (h *ReportsHandler) Workload(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.reports.Workload()})
}
