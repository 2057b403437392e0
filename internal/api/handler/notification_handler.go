package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List 我的通知
// GET /api/v1/notifications?unread_only=true
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	list, total, err := h.notificationSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// MarkRead 标记单条已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetPathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationSvc.MarkRead(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nil)
}

// MarkAllRead 全部标记已读
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	n, err := h.notificationSvc.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"updated": n})
}
