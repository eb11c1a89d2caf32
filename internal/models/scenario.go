package models

// Scenario 代表一個求生劇本，包含可抽選的物品與依序出現的情境
// 劇本由目錄（catalog）提供，遊戲過程中只讀不寫
type Scenario struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Items       []Item      `json:"items"`
	Situations  []Situation `json:"situations"`
}

// Item 劇本中可被玩家抽選的物品
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Situation 玩家必須用一件物品應對的情境
type Situation struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ScenarioSummary 劇本列表 API 回傳的摘要資訊
type ScenarioSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
