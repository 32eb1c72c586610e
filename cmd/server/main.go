package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tierstore/tierstore/internal/conf"
	"github.com/tierstore/tierstore/internal/pkg/blob"
	"github.com/tierstore/tierstore/internal/pkg/logger"
	"github.com/tierstore/tierstore/internal/server"
	"github.com/tierstore/tierstore/internal/storage/biz"
	"github.com/tierstore/tierstore/internal/storage/data"
	"github.com/tierstore/tierstore/internal/storage/service"
	"github.com/tierstore/tierstore/internal/storage/types"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	ctx := context.Background()

	// Initialize metadata registry
	repo, cleanup, err := newMetadataRepo(ctx, config, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize metadata registry", zap.Error(err))
	}
	defer cleanup()

	// Initialize blob store
	blobs, err := newBlobStore(ctx, config, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize blob store", zap.Error(err))
	}

	// Initialize use cases and engine
	storageUseCase := biz.NewStorageUseCase(repo, blobs, nil, log.Logger)
	engine := biz.NewEngine(repo, newRuleSet(config), newSchedule(config), nil, log.Logger)

	// Initialize services
	storageService := service.NewStorageService(storageUseCase, log.Logger)
	adminService := service.NewAdminService(engine, storageUseCase, log.Logger)

	// Initialize server
	httpServer := server.NewHTTPServer(config, log.Logger, storageService, adminService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully",
		zap.String("metadata_backend", config.Storage.MetadataBackend),
		zap.String("blob_backend", config.Storage.BlobBackend))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// newMetadataRepo builds the configured registry backend
func newMetadataRepo(ctx context.Context, config *conf.Config, log *zap.Logger) (biz.MetadataRepo, func(), error) {
	noop := func() {}

	switch config.Storage.MetadataBackend {
	case "memory":
		return data.NewMemoryMetadataRepo(), noop, nil

	case "postgres":
		db, err := gorm.Open(postgres.Open(config.Database.DSN()), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		repo, err := data.NewGormMetadataRepo(db)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("postgres metadata registry initialized")
		return repo, func() { sqlDB.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", config.Redis.Host, config.Redis.Port),
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("redis metadata registry initialized")
		return data.NewRedisMetadataRepo(client), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown metadata backend: %q", config.Storage.MetadataBackend)
	}
}

// newBlobStore builds the configured blob backend
func newBlobStore(ctx context.Context, config *conf.Config, log *zap.Logger) (biz.BlobStore, error) {
	switch config.Storage.BlobBackend {
	case "memory":
		return data.NewMemoryBlobStore(), nil

	case "minio":
		client, err := blob.NewClient(ctx, &blob.Config{
			Endpoint:        config.MinIO.Endpoint,
			AccessKeyID:     config.MinIO.AccessKey,
			SecretAccessKey: config.MinIO.SecretKey,
			UseSSL:          config.MinIO.UseSSL,
			Bucket:          config.MinIO.Bucket,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio: %w", err)
		}
		return data.NewMinioBlobStore(client), nil

	default:
		return nil, fmt.Errorf("unknown blob backend: %q", config.Storage.BlobBackend)
	}
}

// newRuleSet builds the override rules from configuration
func newRuleSet(config *conf.Config) *biz.RuleSet {
	return biz.NewRuleSet(
		biz.PriorityPinRule(config.Tiering.PriorityMarker),
		biz.RetentionHoldRule(config.Tiering.RetentionPrefix, config.Tiering.RetentionMaxDays),
	)
}

// newSchedule builds the generic age schedule from configuration
func newSchedule(config *conf.Config) []biz.TierStep {
	return []biz.TierStep{
		{From: types.TierHot, MinAgeDays: config.Tiering.HotToWarmDays, To: types.TierWarm},
		{From: types.TierWarm, MinAgeDays: config.Tiering.WarmToColdDays, To: types.TierCold},
	}
}
