package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"survivor_draft/internal/api"
	"survivor_draft/internal/catalog"
	"survivor_draft/internal/models"
	"survivor_draft/internal/repository"
	"survivor_draft/internal/service"
	"survivor_draft/internal/storage"
	"survivor_draft/pkg/config"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 載入劇本目錄，之後只讀不寫
	cat, err := catalog.Load(cfg.Game.ScenarioFile)
	if err != nil {
		log.Fatalf("Failed to load scenario catalog: %v", err)
	}

	// 初始化資料庫連接（選用，僅用於對局存檔）
	// 房間狀態本身只存在記憶體，伺服器重啟即失效
	var repos *repository.Repositories
	if cfg.DB.Host != "" {
		db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.AutoMigrate(&models.MatchRecord{}); err != nil {
			log.Fatalf("Failed to auto migrate database: %v", err)
		}
		repos = repository.NewRepositories(db)
	}

	// 初始化服務
	services := service.NewServices(cat, repos, cfg.Game)

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
