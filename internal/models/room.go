package models

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"    // 等待玩家加入並按下準備
	RoomStatusDrafting   RoomStatus = "drafting"   // 輪流抽選物品
	RoomStatusSituations RoomStatus = "situations" // 每人為當前情境選一件物品
	RoomStatusVoting     RoomStatus = "voting"     // 針對各玩家的選擇投票
	RoomStatusFinished   RoomStatus = "finished"   // 遊戲結束，僅可讀取
)

// RoomSnapshot 廣播給客戶端的完整房間狀態
// 客戶端收到後應整個取代舊狀態，而不是合併；漏收一次快照
// 也會被下一次快照完整補齊
type RoomSnapshot struct {
	Code                  string            `json:"code"`
	Status                RoomStatus        `json:"status"`
	MaxPlayers            int               `json:"maxPlayers"`
	Players               []Player          `json:"players"`
	Scenario              *Scenario         `json:"scenario"`
	CurrentPlayerTurn     string            `json:"currentPlayerTurn"`
	CurrentSituationIndex int               `json:"currentSituationIndex"`
	CurrentSituation      *Situation        `json:"currentSituation,omitempty"`
	Votes                 map[string]string `json:"votes"`
	HasPasscode           bool              `json:"hasPasscode"`
}
