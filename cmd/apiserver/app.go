package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"courier/marcas/common/entity"
	"courier/marcas/internal/app/config"
	"courier/marcas/internal/app/domains/modules/mdaudit"
	"courier/marcas/internal/app/domains/modules/mdguide"
	"courier/marcas/internal/app/domains/modules/mdmanifest"
	"courier/marcas/internal/app/domains/modules/mdmarking"
	"courier/marcas/internal/app/domains/repo/rpguide"
	"courier/marcas/internal/app/domains/repo/rpmark"
	"courier/marcas/internal/app/domains/services/svmarcas"
	"courier/marcas/internal/app/infra/mq/lmstfy"
	"courier/marcas/internal/app/infra/persistence/mysql"
	"courier/marcas/internal/app/pkg/idgen"
	"courier/marcas/internal/app/pkg/logger"
	"courier/marcas/internal/app/server/handlers/marcas"
	"courier/marcas/internal/app/server/routers"
)

// App 组装完成的应用
type App struct {
	Engine  *gin.Engine
	Service *svmarcas.MarcasService
}

// loadConfig 加载并校验配置
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// InitializeApp 初始化各层依赖
func InitializeApp(cfg *config.Config, log logger.Logger) (*App, func(), error) {
	db, err := mysql.Open(cfg.MySQL, cfg.Marking.Concurrency)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if err := db.AutoMigrate(&entity.Mark{}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate marks failed: %w", err)
	}
	log.Infof(context.Background(), "Database connected")

	lmstfyClient := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	svc := newMarcasService(cfg, db, lmstfyClient, log)
	handler := marcas.NewMarcasHandler(svc, log)
	engine := routers.SetupRoutes(handler, routers.Options{
		ServiceName: cfg.App.Name,
		CORSOrigin:  cfg.Server.CORSOrigin,
	}, log)

	return &App{Engine: engine, Service: svc}, cleanup, nil
}

// newMarcasService publisher 为 nil 时审计投递失败只记日志
func newMarcasService(cfg *config.Config, db *gorm.DB, publisher mdaudit.JobPublisher, log logger.Logger) *svmarcas.MarcasService {
	store := rpguide.NewGuideStore(db)
	marks := rpmark.NewMarkRepository(db, idgen.NewSnowflakeIDGenerator(1))

	marking := mdmarking.NewMarkingModule(
		store,
		mdmarking.NewValidator(mdmarking.AlwaysConsolidated),
		mdmarking.NewExecutor(mdmarking.ExecutorConfig{
			Concurrency:     cfg.Marking.Concurrency,
			CallTimeout:     cfg.Marking.CallTimeout,
			SuccessSentinel: cfg.Marking.SuccessSentinel,
		}, log),
		log,
	)

	audit := mdaudit.NewAuditModule(publisher, cfg.Lmstfy.AuditQueue, marks, log)

	return svmarcas.NewMarcasService(
		mdmanifest.NewManifestModule(store, log),
		mdguide.NewGuideModule(store, log),
		marking,
		audit,
		log,
	)
}
