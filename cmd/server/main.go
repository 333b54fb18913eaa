package main

import (
	"log"

	"github.com/gallerycms/internal/config"
	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/email"
	"github.com/gallerycms/internal/handler"
	"github.com/gallerycms/internal/imagehost"
	"github.com/gallerycms/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 引导管理员账号
	if err := db.EnsureAdmin(cfg.RootAdminEmail, cfg.RootAdminPass); err != nil {
		log.Fatalf("failed to ensure root admin: %v", err)
	}

	images, err := imagehost.NewMinioHost(imagehost.Options{
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		UseSSL:        cfg.S3UseSSL,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to initialize image host: %v", err)
	}

	mailer, err := email.NewClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser,
		cfg.SMTPPassword, cfg.SMTPFromName, cfg.SMTPFromEmail)
	if err != nil {
		log.Fatalf("failed to initialize mail client: %v", err)
	}

	api := handler.NewAPI(db.DB, images, mailer, cfg.SiteBaseURL)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret, cfg.AllowedOrigins)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
