package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"quadra_host_v1/internal/controller"
	"quadra_host_v1/internal/middleware"
	"quadra_host_v1/internal/model"
	"quadra_host_v1/internal/repository"
	"quadra_host_v1/internal/router"
	"quadra_host_v1/internal/service"
	"quadra_host_v1/internal/task"
	"quadra_host_v1/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers.User, deps.Controllers.Draft, deps.Controllers.Court)

	// 5. 启动服务
	startServer(r, deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
	Tasks       *task.TaskManager
}

// Repositories 仓库集合
type Repositories struct {
	User  repository.UserRepository
	Court repository.CourtRepository
	Asset repository.AssetRepository
}

// Services 服务集合
type Services struct {
	User    *service.UserService
	Draft   *service.DraftService
	Storage service.StorageProvider
	Upload  *service.UploadService
	Publish *service.PublishService
}

// Controllers 控制器集合
type Controllers struct {
	User  *controller.UserController
	Draft *controller.DraftController
	Court *controller.CourtController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=quadra_host port=5432 sslmode=disable TimeZone=America/Sao_Paulo")

	db := database.InitDB(dsn,
		// Account
		&model.HostUser{},
		// Court
		&model.Court{}, &model.UploadedAsset{},
	)

	// 审计回调：自动填充 CreatedBy/UpdatedBy
	middleware.RegisterAuditCallbacks(db)

	return db
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:  repository.NewUserRepository(db),
		Court: repository.NewCourtRepository(db),
		Asset: repository.NewAssetRepository(db),
	}

	// -------- 基础服务 --------
	initJWTConfig()
	storage := initStorageProvider()

	// -------- 业务服务 --------
	services := &Services{
		User:    service.NewUserService(repos.User),
		Draft:   service.NewDraftService(),
		Storage: storage,
	}
	services.Upload = service.NewUploadService(storage, service.NewImageProcessor(), repos.Asset)
	services.Publish = service.NewPublishService(services.Draft, services.Upload, repos.Court, repos.Asset)

	// -------- Controller 层 --------
	controllers := &Controllers{
		User:  controller.NewUserController(services.User),
		Draft: controller.NewDraftController(services.Draft, services.Publish),
		Court: controller.NewCourtController(repos.Court),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initJWTConfig 从环境变量装配 JWT 配置
func initJWTConfig() {
	cfg := middleware.DefaultJWTConfig()
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.SecretKey = secret
	}
	middleware.SetJWTConfig(cfg)
}

// initStorageProvider 初始化对象存储
func initStorageProvider() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:   getEnv("STORAGE_PROVIDER", "supabase"),
		Bucket:     getEnv("STORAGE_BUCKET", "courts"),
		Region:     getEnv("AWS_REGION", ""),
		AccessKey:  getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Endpoint:   getEnv("STORAGE_ENDPOINT", ""),
		ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		CDNDomain:  getEnv("STORAGE_CDN_DOMAIN", ""),
		BasePath:   getEnv("STORAGE_BASE_PATH", "./uploads"),
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return storage
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	deps.Tasks = task.NewTaskManager(&task.TaskManagerDeps{
		DraftService: deps.Services.Draft,
		AssetRepo:    deps.Repos.Asset,
		Storage:      deps.Services.Storage,
	}, nil)
	deps.Tasks.Start()
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, deps *Dependencies) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	if deps.Tasks != nil {
		deps.Tasks.Stop()
	}

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
