package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/pkg/report"
)

// ReportHandler handles commission report HTTP requests
type ReportHandler struct {
	commissionService *service.CommissionService
}

// NewReportHandler creates a new report handler
func NewReportHandler(commissionService *service.CommissionService) *ReportHandler {
	return &ReportHandler{commissionService: commissionService}
}

// Commissions handles the team commission report
func (h *ReportHandler) Commissions(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rep, err := h.commissionService.TeamReport(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission report generated successfully", rep)
}

// ExportCommissions handles downloading the team commission report as CSV or XLSX
func (h *ReportHandler) ExportCommissions(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.commissionService.ExportTeamReport(c.Request.Context(), period, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
