package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// ApprovalHandler 审批模块 HTTP 处理器
// 角色由 Service 层按 workflow.approver_roles 校验
type ApprovalHandler struct {
	approvalSvc service.ApprovalService
}

// NewApprovalHandler 创建 ApprovalHandler
func NewApprovalHandler(approvalSvc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// ApproveApplication 审批通过个人申请
// POST /api/v1/applications/:id/approve
func (h *ApprovalHandler) ApproveApplication(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.approvalSvc.ApproveApplication(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// RejectApplication 驳回个人申请
// POST /api/v1/applications/:id/reject
func (h *ApprovalHandler) RejectApplication(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.approvalSvc.RejectApplication(c.Request.Context(), id, actor, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// ApproveGroup 审批通过小组申请
// POST /api/v1/groups/:id/approve
func (h *ApprovalHandler) ApproveGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.approvalSvc.ApproveGroup(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// RejectGroup 驳回小组申请
// POST /api/v1/groups/:id/reject
func (h *ApprovalHandler) RejectGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.approvalSvc.RejectGroup(c.Request.Context(), id, actor, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
