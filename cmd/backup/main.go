package main

import (
	"context"
	"log"
	"time"

	"github.com/BerylCAtieno/ezdocs-api/internal/backup"
	"github.com/BerylCAtieno/ezdocs-api/internal/config"
	"github.com/BerylCAtieno/ezdocs-api/internal/db"
	"github.com/BerylCAtieno/ezdocs-api/internal/storage"
	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.Environment)
	defer logger.Sync()

	database, err := db.NewSQLiteDB(cfg.DatabasePath, 1)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	key, err := backup.NewService(store, database, cfg.BackupKeep, logger).Run(ctx)
	if err != nil {
		logger.Fatal("Backup failed", "error", err)
	}

	logger.Info("Backup completed", "bucket", cfg.S3BucketName, "key", key)
}
