package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"survivor_draft/internal/api/handlers"
	"survivor_draft/internal/middleware"
	"survivor_draft/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	scenarioHandler := handlers.NewScenarioHandler(services.Catalog)
	roomHandler := handlers.NewRoomHandler(services.RoomService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// 劇本目錄
	api.GET("/scenarios", scenarioHandler.List)

	// 房間相關：建立與加入走 REST，之後的遊戲動作都走 WebSocket
	rooms := api.Group("/rooms")
	{
		rooms.POST("", roomHandler.CreateRoom)          // 創建房間
		rooms.GET("/:code", roomHandler.GetRoom)        // 查詢房間快照
		rooms.POST("/:code/join", roomHandler.JoinRoom) // 加入房間
	}

	// 對局存檔（未設定資料庫時不開放）
	if services.MatchRepository != nil {
		matchHandler := handlers.NewMatchHandler(services.MatchRepository)
		api.GET("/matches", matchHandler.ListRecent)
	}

	// WebSocket 連接點，session token 為選用
	api.GET("/ws", middleware.SessionMiddleware(), wsHandler.HandleWebSocket)
}
