package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"courier/marcas/common/entity"
	"courier/marcas/internal/app/config"
	"courier/marcas/internal/app/consumer"
	"courier/marcas/internal/app/domains/modules/mdaudit"
	"courier/marcas/internal/app/domains/repo/rpmark"
	"courier/marcas/internal/app/domains/services/svaudit"
	"courier/marcas/internal/app/infra/mq/lmstfy"
	"courier/marcas/internal/app/infra/persistence/mysql"
	"courier/marcas/internal/app/infra/persistence/redis"
	"courier/marcas/internal/app/pkg/idgen"
	"courier/marcas/internal/app/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	machineID := flag.Int64("machine-id", 2, "台账主键生成器机器ID（0-99，与 apiserver 区分）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化日志
	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	appLogger.Infof(ctx, "Starting audit consumer...")

	// 3. 初始化基础设施组件
	db, err := mysql.Open(cfg.MySQL, 1)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql.DB: %v", err)
	}
	defer sqlDB.Close()
	if err := db.AutoMigrate(&entity.Mark{}); err != nil {
		log.Fatalf("Failed to migrate marks: %v", err)
	}
	appLogger.Infof(ctx, "Database connected")

	redisClient, err := redis.NewPubSubClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ChannelPrefix)
	if err != nil {
		log.Fatalf("Failed to init redis: %v", err)
	}
	defer redisClient.Close()
	appLogger.Infof(ctx, "Redis connected")

	lmstfyClient := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	// 4. 初始化 Repository / Module / Service
	marks := rpmark.NewMarkRepository(db, idgen.NewSnowflakeIDGenerator(*machineID))
	auditModule := mdaudit.NewAuditModule(nil, cfg.Lmstfy.AuditQueue, marks, appLogger)
	auditService := svaudit.NewAuditService(auditModule, redisClient, appLogger)

	// 5. 启动消费循环，收到信号后退出
	auditConsumer := consumer.NewAuditConsumer(
		lmstfyClient,
		auditService,
		&consumer.Config{
			QueueName:    cfg.Lmstfy.AuditQueue,
			Timeout:      3,  // 拉取消息超时 3 秒
			TTR:          30, // 消息处理超时 30 秒
			PollInterval: 500 * time.Millisecond,
		},
		appLogger,
	)

	if err := auditConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Errorf(context.Background(), "Consumer error: %v", err)
	}
	appLogger.Infof(context.Background(), "Audit consumer stopped")
}
