package service

import (
	"survivor_draft/internal/catalog"
	"survivor_draft/internal/repository"
	"survivor_draft/pkg/config"
)

type Services struct {
	RoomService      *RoomService
	WebSocketManager *WebSocketManager
	Catalog          *catalog.Catalog
	MatchRepository  repository.MatchRepository
}

// NewServices 組裝所有服務
// repos 可為 nil（未設定資料庫時），此時沒有對局存檔功能
func NewServices(cat *catalog.Catalog, repos *repository.Repositories, game config.GameConfig) *Services {
	wsManager := NewWebSocketManager()

	var matchRepo repository.MatchRepository
	if repos != nil {
		matchRepo = repos.Match
	}

	roomService := NewRoomService(cat, wsManager, matchRepo, game)
	wsManager.SetRoomService(roomService)

	return &Services{
		RoomService:      roomService,
		WebSocketManager: wsManager,
		Catalog:          cat,
		MatchRepository:  matchRepo,
	}
}
