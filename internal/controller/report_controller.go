package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logreport-backend/internal/dto"
	"logreport-backend/internal/model"
	"logreport-backend/internal/report"
	"logreport-backend/internal/service"
	"logreport-backend/internal/store"
)

type ReportController struct {
	reportService service.ReportService
	loaderService service.LogLoaderService
}

func NewReportController(reportService service.ReportService, loaderService service.LogLoaderService) *ReportController {
	return &ReportController{
		reportService: reportService,
		loaderService: loaderService,
	}
}

func RegisterReportRoutes(router *gin.Engine, controller *ReportController) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/reports/:kind", controller.GetReport)
		v1.GET("/stats", controller.GetStats)
		v1.POST("/logs", controller.IngestLogs)
		v1.POST("/reload", controller.Reload)
	}
}

// GetReport godoc
// @Summary      Generate a named report
// @Description  Renders the report of the given kind from the current store contents. Only "average" is recognized.
// @Tags         reports
// @Produce      json
// @Param        kind  path      string  true  "Report kind (e.g. average)"
// @Success      200   {object}  dto.ReportResponse "Rendered report"
// @Failure      400   {object}  model.Response "Unknown report type"
// @Failure      500   {object}  model.Response "Internal server error"
// @Router       /api/v1/reports/{kind} [get]
func (c *ReportController) GetReport(ctx *gin.Context) {
	kind := ctx.Param("kind")

	text, err := c.reportService.Report(kind)
	if err != nil {
		if errors.Is(err, report.ErrUnknownReport) {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("Unknown report type '"+kind+"'", nil))
			return
		}
		log.Error().Err(err).Str("kind", kind).Msg("Error generating report")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to generate report", nil))
		return
	}

	ctx.JSON(http.StatusOK, dto.ReportResponse{
		Kind:   kind,
		Report: text,
		Rows:   statRows(c.reportService.Stats()),
	})
}

// GetStats godoc
// @Summary      Per-endpoint average statistics
// @Description  Returns the average response time statistics as JSON rows, sorted by endpoint.
// @Tags         reports
// @Produce      json
// @Success      200  {array}   dto.EndpointStatResponse
// @Router       /api/v1/stats [get]
func (c *ReportController) GetStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, statRows(c.reportService.Stats()))
}

// IngestLogs godoc
// @Summary      Ingest pre-parsed log records
// @Description  Replaces the store contents with the posted records, applying the configured date filter.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        records  body      []model.Record  true  "Log records"
// @Success      200      {object}  dto.IngestResponse "Accepted record count"
// @Failure      400      {object}  model.Response "Invalid request body"
// @Failure      500      {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [post]
func (c *ReportController) IngestLogs(ctx *gin.Context) {
	var records []model.Record
	if err := ctx.ShouldBindJSON(&records); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: expected a JSON array of records", nil))
		return
	}

	accepted, _, err := c.reportService.IngestRecords(records)
	if err != nil {
		log.Error().Err(err).Msg("Error ingesting records")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to ingest records", nil))
		return
	}

	ctx.JSON(http.StatusOK, dto.IngestResponse{Accepted: accepted})
}

// Reload godoc
// @Summary      Reload configured log files
// @Description  Triggers one reload cycle over the configured files, replacing the store contents.
// @Tags         logs
// @Produce      json
// @Success      200  {object}  model.Response "Reload completed"
// @Failure      500  {object}  model.Response "Reload failed"
// @Router       /api/v1/reload [post]
func (c *ReportController) Reload(ctx *gin.Context) {
	if err := c.loaderService.Reload(ctx.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Error reloading log files")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to reload log files", nil))
		return
	}
	ctx.JSON(http.StatusOK, model.NewResponse("Reload completed", nil))
}

func statRows(stats []store.EndpointStat) []dto.EndpointStatResponse {
	rows := make([]dto.EndpointStatResponse, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, dto.EndpointStatResponse{
			Handler:         s.URL,
			Total:           s.Count,
			AvgResponseTime: report.FormatAverage(s.Average()),
		})
	}
	return rows
}
