package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/config"
	"github.com/inkline/internal/db"
	"github.com/inkline/internal/handler"
	"github.com/inkline/internal/router"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger, err := buildLogger(cfg.GinMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := db.EnsureAdmin(db.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	handler.RegisterValidators()

	api := handler.NewAPI(db.DB, logger, handler.Options{
		JWTSecret: []byte(cfg.JWTSecret),
		TokenTTL:  cfg.TokenTTL,
		UploadDir: cfg.UploadDir,
		UploadURL: cfg.UploadURLPath,
	})

	r := router.Setup(api, logger, cfg.UploadURLPath, cfg.UploadDir)

	logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func buildLogger(mode string) (*zap.Logger, error) {
	if mode == gin.ReleaseMode {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
