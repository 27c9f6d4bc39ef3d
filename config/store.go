package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/gobblego/database"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitStore opens the client store selected by STORE_DRIVER.
func InitStore(cfg *Config) (database.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		utils.InfoLogger.Warn("Using in-memory store, the session is lost on restart")
		return database.NewMemoryStore(), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		utils.InfoLogger.Infof("Connected to redis at %s", cfg.RedisAddr)
		return database.NewRedisStore(client, cfg.StoreNamespace), nil

	case "sqlite", "mysql":
		db, err := InitDB(cfg.StoreDriver, cfg.StoreDSN)
		if err != nil {
			return nil, err
		}
		return database.NewGormStore(db, cfg.StoreNamespace)
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// InitDB opens a gorm connection for the sqlite or mysql driver.
func InitDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	utils.InfoLogger.Infof("Connected to %s store", driver)
	return db, nil
}

// InitAssets returns the asset service; without ASSET_ENDPOINT images are
// redirected to their public bucket URL instead of streamed.
func InitAssets(cfg *Config) *services.AssetService {
	assetCfg := cfg.Assets
	if assetCfg.Endpoint == "" {
		return services.NewAssetService(&assetCfg, nil)
	}
	store, err := services.NewMinioAssetStore(&assetCfg)
	if err != nil {
		utils.ErrorLogger.Errorf("Asset store disabled: %v", err)
		return services.NewAssetService(&assetCfg, nil)
	}
	return services.NewAssetService(&assetCfg, store)
}
