package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/api/handler"
	"github.com/rhazelina/TA-12-sub000/internal/api/router"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
	"github.com/rhazelina/TA-12-sub000/internal/service"
	"github.com/rhazelina/TA-12-sub000/pkg/database"
	"github.com/rhazelina/TA-12-sub000/pkg/jwt"
	applogger "github.com/rhazelina/TA-12-sub000/pkg/logger"
	"github.com/rhazelina/TA-12-sub000/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("PKL_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run 组装依赖并阻塞到收到退出信号
func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("PKL 安置服务启动中",
		zap.Int("port", cfg.Server.Port),
		zap.Strings("approver_roles", cfg.Workflow.ApproverRoles),
		zap.Strings("transfer_coordinator_roles", cfg.Workflow.TransferCoordinatorRoles),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("连接数据库: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取 sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("数据库迁移: %w", err)
	}

	// Redis 不可用时降级运行：不校验黑名单、不限流
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，Token 黑名单与限流已关闭", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("注册校验规则: %w", err)
	}

	svc := service.NewService(cfg, repository.NewRepository(db), logger)
	engine := router.Setup(cfg, handler.NewHandler(svc), jwt.NewManager(&cfg.Auth), rdb, db, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // 导出文件需要更长写超时
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP 服务器: %w", err)
		}
	case <-ctx.Done():
		logger.Info("收到关闭信号，开始优雅关闭")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭 HTTP 服务器: %w", err)
	}
	logger.Info("服务器已关闭")
	return nil
}
