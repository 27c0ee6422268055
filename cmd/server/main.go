// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vault-archive-go/internal/config"
	"vault-archive-go/internal/handler"
	"vault-archive-go/internal/middleware"
	"vault-archive-go/internal/model"
	"vault-archive-go/internal/repository"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/database"
	"vault-archive-go/pkg/es"
	"vault-archive-go/pkg/kafka"
	"vault-archive-go/pkg/log"
	"vault-archive-go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、MinIO、Elasticsearch 和 Kafka
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Fatal("es 初始化失败", err)
	}
	kafka.InitProducer(cfg.Kafka)

	if err := database.DB.AutoMigrate(&model.File{}); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	// 4. 初始化 Repository
	fileRepo := repository.NewFileRepository(database.DB)
	sessionRepo := repository.NewSessionRepository(database.RDB)

	// 5. 初始化 Service (依赖注入)
	searchService := service.NewSearchService(es.ESClient, cfg.Elasticsearch.IndexName, fileRepo)
	fileService := service.NewFileService(fileRepo, service.NewKafkaEventPublisher(), searchService)
	authService := service.NewAuthService(
		sessionRepo,
		cfg.Auth.AdminPassword,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour,
	)
	uploadService := service.NewUploadService(cfg.MinIO)

	// 6. 启动阶段的幂等初始化：档案表为空时写入示例记录
	if err := fileService.SeedIfEmpty(context.Background()); err != nil {
		log.Fatal("写入初始示例记录失败", err)
	}

	// 7. 启动后台 Kafka 消费者，把档案事件推给 WebSocket 订阅者
	eventHub := service.NewEventHub()
	go kafka.StartConsumer(cfg.Kafka, eventHub)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	api := r.Group("/api")
	{
		// Auth 路由组，全部公开访问
		auth := api.Group("/auth")
		{
			authHandler := handler.NewAuthHandler(authService)
			auth.POST("/login", authHandler.Login)
			auth.GET("/check", authHandler.Check)
			auth.POST("/logout", authHandler.Logout)
		}

		files := api.Group("/files")
		{
			fileHandler := handler.NewFileHandler(fileService)

			// 读取接口公开访问，锁定档案同样返回完整内容
			files.GET("", fileHandler.List)
			files.GET("/search", handler.NewSearchHandler(searchService).Search)
			files.GET("/:id", fileHandler.Get)

			// 写入接口需要已认证会话
			authed := files.Group("")
			authed.Use(middleware.SessionAuth(authService))
			{
				authed.POST("", fileHandler.Create)
				authed.PATCH("/:id", fileHandler.Update)
				authed.POST("/image", handler.NewUploadHandler(uploadService).UploadImage)
			}
		}

		// 档案事件流 (WebSocket)
		api.GET("/events", handler.NewEventHandler(eventHub).Stream)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
