// Package catalog 提供唯讀的劇本目錄。
//
// 目錄內容在啟動時載入後即不再變動，遊戲核心只會讀取它。
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"survivor_draft/internal/models"
)

// Catalog 劇本目錄
type Catalog struct {
	scenarios []models.Scenario
	byID      map[string]*models.Scenario
}

// New 以給定的劇本建立目錄，並檢查每個劇本內
// 物品與情境的 ID 不得重複
func New(scenarios []models.Scenario) (*Catalog, error) {
	c := &Catalog{
		scenarios: scenarios,
		byID:      make(map[string]*models.Scenario, len(scenarios)),
	}

	for i := range scenarios {
		sc := &c.scenarios[i]
		if sc.ID == "" {
			return nil, fmt.Errorf("scenario at index %d has empty id", i)
		}
		if _, exists := c.byID[sc.ID]; exists {
			return nil, fmt.Errorf("duplicate scenario id %q", sc.ID)
		}

		itemIDs := make(map[string]struct{}, len(sc.Items))
		for _, item := range sc.Items {
			if _, exists := itemIDs[item.ID]; exists {
				return nil, fmt.Errorf("scenario %q: duplicate item id %q", sc.ID, item.ID)
			}
			itemIDs[item.ID] = struct{}{}
		}

		situationIDs := make(map[string]struct{}, len(sc.Situations))
		for _, st := range sc.Situations {
			if _, exists := situationIDs[st.ID]; exists {
				return nil, fmt.Errorf("scenario %q: duplicate situation id %q", sc.ID, st.ID)
			}
			situationIDs[st.ID] = struct{}{}
		}

		if len(sc.Items) == 0 || len(sc.Situations) == 0 {
			return nil, fmt.Errorf("scenario %q must have at least one item and one situation", sc.ID)
		}

		c.byID[sc.ID] = sc
	}

	return c, nil
}

// Load 載入劇本目錄
// path 為空時使用內建劇本，否則讀取指定的 JSON 檔案取代內建內容
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(builtinScenarios())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenarios []models.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	return New(scenarios)
}

// List 回傳所有劇本的摘要，依載入順序排列
func (c *Catalog) List() []models.ScenarioSummary {
	summaries := make([]models.ScenarioSummary, 0, len(c.scenarios))
	for _, sc := range c.scenarios {
		summaries = append(summaries, models.ScenarioSummary{
			ID:          sc.ID,
			Name:        sc.Name,
			Description: sc.Description,
		})
	}
	return summaries
}

// Get 依 ID 取得劇本
func (c *Catalog) Get(id string) (*models.Scenario, bool) {
	sc, ok := c.byID[id]
	return sc, ok
}
