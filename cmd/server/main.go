package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/config"
	"github.com/michaelos02/mroFormLimiter/internal/api/handler"
	"github.com/michaelos02/mroFormLimiter/internal/api/middleware"
	"github.com/michaelos02/mroFormLimiter/internal/api/router"
	"github.com/michaelos02/mroFormLimiter/internal/repository"
	"github.com/michaelos02/mroFormLimiter/internal/scheduler"
	"github.com/michaelos02/mroFormLimiter/internal/service"
	"github.com/michaelos02/mroFormLimiter/pkg/database"
	"github.com/michaelos02/mroFormLimiter/pkg/jwt"
	applogger "github.com/michaelos02/mroFormLimiter/pkg/logger"
	"github.com/michaelos02/mroFormLimiter/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("MROFL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("settings_store", cfg.Policy.SettingsStore),
		zap.String("timezone", cfg.Policy.Timezone),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis
	// 设置存储选择 redis 时必须可用；否则仅用于限流，连接失败降级运行
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		if cfg.Policy.SettingsStore == config.SettingsStoreRedis {
			logger.Fatal("Redis 连接失败，无法读取截止策略设置", zap.Error(err))
		}
		logger.Warn("Redis 连接失败，提交限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 依赖注入: Repository → Scheduler → Service → Handler
	repo := repository.NewRepository(db)

	var settingsKV service.SettingsKV = repo.Setting
	if cfg.Policy.SettingsStore == config.SettingsStoreRedis {
		settingsKV = rdb
	}

	sched := scheduler.New(repo.Trigger, cfg.Policy.SchedulerInterval, logger)

	svc, err := service.NewService(cfg, repo, settingsKV, sched, logger)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}
	svc.RegisterTriggerHandlers(sched, repo)

	h := handler.NewHandler(svc)
	jwtMgr := jwt.NewManager(&cfg.Auth)

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}

	// 6. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, limiter, logger)

	// 7. 启动触发器调度
	schedCtx, stopSched := context.WithCancel(context.Background())
	sched.Start(schedCtx)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	sched.Stop()
	stopSched()

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
