package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportPlacements 导出安置汇总表
// GET /api/v1/placements/export?status=&industry_id=&supervisor_id=
func (h *ExportHandler) ExportPlacements(c *gin.Context) {
	var filter dto.PlacementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportPlacements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, url.PathEscape(filename), contentTypeXLSX, buf.Bytes())
}

// ExportCalendar 导出安置日历
// GET /api/v1/placements/me/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	body, filename, err := h.calendarSvc.ExportCalendar(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeICS, []byte(body))
}
