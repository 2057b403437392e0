package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/api/handler"
	"github.com/rhazelina/TA-12-sub000/internal/api/middleware"
	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/pkg/jwt"
	"github.com/rhazelina/TA-12-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	staff := middleware.RoleAuth(dto.RoleCoordinator, dto.RoleKaprog, dto.RoleAdmin)
	teachers := middleware.RoleAuth(dto.RoleTeacher, dto.RoleCoordinator, dto.RoleKaprog, dto.RoleAdmin)
	student := middleware.RoleAuth(dto.RoleStudent)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	authorized.Use(middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window))
	{
		// 个人申请
		applications := authorized.Group("/applications")
		{
			applications.POST("", student, h.Application.Submit)
			applications.GET("", staff, h.Application.List)
			applications.GET("/me", student, h.Application.ListMine)
			applications.GET("/:id", h.Application.Get) // 学生仅限本人，由 Service 层校验
			applications.POST("/:id/withdraw", student, h.Application.Withdraw)
			applications.POST("/:id/approve", h.Approval.ApproveApplication) // 角色由 Service 层校验
			applications.POST("/:id/reject", h.Approval.RejectApplication)
			applications.GET("/:id/letter", h.Placement.ApplicationLetter)
		}

		// 小组
		groups := authorized.Group("/groups")
		{
			groups.POST("", student, h.Group.Create)
			groups.GET("", staff, h.Group.List)
			groups.GET("/me", student, h.Group.ListMine)
			groups.GET("/invitations", student, h.Group.ListInvitations)
			groups.GET("/:id", h.Group.Get) // 学生仅限组长与受邀成员
			groups.PUT("/:id", student, h.Group.UpdateDraft)
			groups.DELETE("/:id", student, h.Group.Delete)
			groups.POST("/:id/members", student, h.Group.InviteMembers)
			groups.DELETE("/:id/members/:student_id", student, h.Group.RemoveMember)
			groups.POST("/:id/submit", student, h.Group.Submit)
			groups.POST("/:id/withdraw", student, h.Group.Withdraw)
			groups.POST("/:id/approve", h.Approval.ApproveGroup)
			groups.POST("/:id/reject", h.Approval.RejectGroup)
			groups.GET("/:id/letter", h.Placement.GroupLetter)
		}
		authorized.POST("/group-members/:id/respond", student, h.Group.Respond)

		// 安置
		placements := authorized.Group("/placements")
		{
			placements.GET("", teachers, h.Placement.List)
			placements.GET("/me", student, h.Placement.ListMine)
			placements.GET("/me/calendar", h.Export.ExportCalendar) // 学生：自己的安置；教师：指导的安置
			placements.GET("/export", staff, h.Export.ExportPlacements)
			placements.POST("/:id/transfers", student, h.Transfer.Request)
			placements.GET("/:id/transfers", h.Transfer.ListForPlacement)
		}

		// 调动
		transfers := authorized.Group("/transfers")
		{
			transfers.GET("", staff, h.Transfer.List)
			transfers.GET("/supervising", teachers, h.Transfer.ListSupervising)
			transfers.GET("/:id", h.Transfer.Get)
			transfers.POST("/:id/coordinator-decision", h.Transfer.CoordinatorDecision)
			transfers.POST("/:id/supervisor-decision", h.Transfer.SupervisorDecision)
		}

		// 通知
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}
	}

	return r
}

// healthCheck 存活检查；db 非 nil 时同时探测数据库
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
