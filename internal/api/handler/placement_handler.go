package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// PlacementHandler 安置查询与派遣函数据 HTTP 处理器
type PlacementHandler struct {
	placementSvc service.PlacementService
}

// NewPlacementHandler 创建 PlacementHandler
func NewPlacementHandler(placementSvc service.PlacementService) *PlacementHandler {
	return &PlacementHandler{placementSvc: placementSvc}
}

// List 安置分页列表
// GET /api/v1/placements?status=&industry_id=&supervisor_id=
func (h *PlacementHandler) List(c *gin.Context) {
	var req dto.PlacementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	list, total, err := h.placementSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListMine 我的安置（含历史）
// GET /api/v1/placements/me
func (h *PlacementHandler) ListMine(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	list, err := h.placementSvc.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// ApplicationLetter 个人申请的派遣函数据
// GET /api/v1/applications/:id/letter
func (h *PlacementHandler) ApplicationLetter(c *gin.Context) {
	h.letter(c, dto.TargetApplication)
}

// GroupLetter 小组申请的派遣函数据
// GET /api/v1/groups/:id/letter
func (h *PlacementHandler) GroupLetter(c *gin.Context) {
	h.letter(c, dto.TargetGroup)
}

func (h *PlacementHandler) letter(c *gin.Context, targetType string) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.placementSvc.GetApprovedPlacement(c.Request.Context(), targetType, id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
