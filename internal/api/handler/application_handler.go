package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// ApplicationHandler 个人申请模块 HTTP 处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// Submit 提交个人申请
// POST /api/v1/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.appSvc.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 申请分页列表
// GET /api/v1/applications?status=&search=&page=&page_size=
func (h *ApplicationHandler) List(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.appSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListMine 我的申请
// GET /api/v1/applications/me
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	list, err := h.appSvc.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 申请详情
// GET /api/v1/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.appSvc.Get(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Withdraw 撤回申请
// POST /api/v1/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.appSvc.Withdraw(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
