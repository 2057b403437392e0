package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// TransferHandler 调动模块 HTTP 处理器
type TransferHandler struct {
	transferSvc service.TransferService
}

// NewTransferHandler 创建 TransferHandler
func NewTransferHandler(transferSvc service.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Request 学生发起调动
// POST /api/v1/placements/:id/transfers
func (h *TransferHandler) Request(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.transferSvc.Request(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// ListForPlacement 某安置的调动记录
// GET /api/v1/placements/:id/transfers
func (h *TransferHandler) ListForPlacement(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	list, err := h.transferSvc.ListForPlacement(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// List 调动申请分页列表
// GET /api/v1/transfers?status=
func (h *TransferHandler) List(c *gin.Context) {
	var req dto.TransferListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	list, total, err := h.transferSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListSupervising 指导教师名下的调动申请
// GET /api/v1/transfers/supervising?status=
func (h *TransferHandler) ListSupervising(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	list, err := h.transferSvc.ListForSupervisor(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 调动申请详情
// GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.transferSvc.Get(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// CoordinatorDecision 协调员决策
// POST /api/v1/transfers/:id/coordinator-decision
func (h *TransferHandler) CoordinatorDecision(c *gin.Context) {
	h.decide(c, h.transferSvc.DecideAsCoordinator)
}

// SupervisorDecision 指导教师决策
// POST /api/v1/transfers/:id/supervisor-decision
func (h *TransferHandler) SupervisorDecision(c *gin.Context) {
	h.decide(c, h.transferSvc.DecideAsSupervisor)
}

type decideFunc func(ctx context.Context, id string, actor dto.Actor, approve bool, note string) (*dto.TransferResponse, error)

func (h *TransferHandler) decide(c *gin.Context, fn decideFunc) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.TransferDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := fn(c.Request.Context(), id, actor, *req.Approve, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
