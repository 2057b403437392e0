package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// GroupHandler 小组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// Create 创建小组（调用者为组长）
// POST /api/v1/groups
func (h *GroupHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.groupSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 小组分页列表
// GET /api/v1/groups?status=
func (h *GroupHandler) List(c *gin.Context) {
	var req dto.GroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	list, total, err := h.groupSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListMine 我参与的小组
// GET /api/v1/groups/me
func (h *GroupHandler) ListMine(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	list, err := h.groupSvc.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// ListInvitations 待答复的邀请
// GET /api/v1/groups/invitations
func (h *GroupHandler) ListInvitations(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	list, err := h.groupSvc.ListInvitations(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 小组详情
// GET /api/v1/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.groupSvc.Get(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpdateDraft 编辑草稿
// PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateDraft(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGroupDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.groupSvc.UpdateDraft(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除草稿小组
// DELETE /api/v1/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	if err := h.groupSvc.Delete(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nil)
}

// InviteMembers 追加邀请
// POST /api/v1/groups/:id/members
func (h *GroupHandler) InviteMembers(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.InviteMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.groupSvc.InviteMembers(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// RemoveMember 移除成员
// DELETE /api/v1/groups/:id/members/:student_id
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := MustGetPathID(c, "student_id")
	if !ok {
		return
	}
	resp, err := h.groupSvc.RemoveMember(c.Request.Context(), id, actor, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Submit 提交小组申请
// POST /api/v1/groups/:id/submit
func (h *GroupHandler) Submit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.groupSvc.Submit(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Withdraw 撤回小组申请
// POST /api/v1/groups/:id/withdraw
func (h *GroupHandler) Withdraw(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.groupSvc.Withdraw(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Respond 答复邀请
// POST /api/v1/group-members/:id/respond
func (h *GroupHandler) Respond(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	var req dto.RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.groupSvc.RespondToInvitation(c.Request.Context(), id, actor, *req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
