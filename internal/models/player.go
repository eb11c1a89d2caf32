package models

// Player 代表房間內的一名玩家
// ID 是伺服器發放的穩定身分識別，跨連線重連保持不變，
// 不可使用傳輸層連線本身的識別碼
type Player struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	IsHost            bool     `json:"isHost"`
	IsReady           bool     `json:"isReady"`
	SelectedItems     []string `json:"selectedItems"`     // 抽選階段依序取得的物品
	UsedItems         []string `json:"usedItems"`         // 每個情境消耗一件，依情境順序排列
	CurrentItemChoice string   `json:"currentItemChoice"` // 本情境暫定的選擇，進入投票前可更改
	VotesReceived     int      `json:"votesReceived"`
	Connected         bool     `json:"connected"`
}
