package models

import (
	"time"

	"gorm.io/gorm"
)

// MatchRecord 一場結束遊戲的存檔
// 只記錄最終結果供查詢，進行中的房間狀態不落地，
// 伺服器重啟即失效
type MatchRecord struct {
	gorm.Model
	RoomCode   string    `json:"room_code" gorm:"type:varchar(16);index"`
	ScenarioID string    `json:"scenario_id" gorm:"type:varchar(64)"`
	Winner     string    `json:"winner"`
	Standings  string    `json:"standings" gorm:"type:jsonb"` // JSON 序列化的最終排名
	FinishedAt time.Time `json:"finished_at"`
}
