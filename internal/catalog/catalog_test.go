package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivor_draft/internal/models"
)

func TestLoadBuiltin(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	summaries := cat.List()
	require.NotEmpty(t, summaries)

	for _, summary := range summaries {
		sc, ok := cat.Get(summary.ID)
		require.True(t, ok, "summary %s should resolve to a scenario", summary.ID)
		assert.Equal(t, summary.Name, sc.Name)
		assert.NotEmpty(t, sc.Items)
		assert.NotEmpty(t, sc.Situations)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.json")
	content := `[{
		"id": "test",
		"name": "測試劇本",
		"description": "僅供測試",
		"items": [
			{"id": "item-1", "name": "繩索", "description": ""},
			{"id": "item-2", "name": "火柴", "description": ""}
		],
		"situations": [
			{"id": "sit-1", "description": "夜幕降臨"}
		]
	}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)

	sc, ok := cat.Get("test")
	require.True(t, ok)
	assert.Equal(t, "測試劇本", sc.Name)
	assert.Len(t, sc.Items, 2)
	assert.Len(t, sc.Situations, 1)

	// 檔案劇本取代內建劇本
	_, ok = cat.Get("desert-island")
	assert.False(t, ok)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	valid := models.Scenario{
		ID:   "ok",
		Name: "OK",
		Items: []models.Item{
			{ID: "a"}, {ID: "b"},
		},
		Situations: []models.Situation{
			{ID: "s1"},
		},
	}

	tests := []struct {
		name      string
		scenarios []models.Scenario
		wantErr   bool
	}{
		{
			name:      "valid",
			scenarios: []models.Scenario{valid},
		},
		{
			name: "empty scenario id",
			scenarios: []models.Scenario{
				{Items: valid.Items, Situations: valid.Situations},
			},
			wantErr: true,
		},
		{
			name:      "duplicate scenario id",
			scenarios: []models.Scenario{valid, valid},
			wantErr:   true,
		},
		{
			name: "duplicate item id",
			scenarios: []models.Scenario{{
				ID:         "dup-item",
				Items:      []models.Item{{ID: "a"}, {ID: "a"}},
				Situations: valid.Situations,
			}},
			wantErr: true,
		},
		{
			name: "duplicate situation id",
			scenarios: []models.Scenario{{
				ID:         "dup-sit",
				Items:      valid.Items,
				Situations: []models.Situation{{ID: "s1"}, {ID: "s1"}},
			}},
			wantErr: true,
		},
		{
			name: "no items",
			scenarios: []models.Scenario{{
				ID:         "no-items",
				Situations: valid.Situations,
			}},
			wantErr: true,
		},
		{
			name: "no situations",
			scenarios: []models.Scenario{{
				ID:    "no-situations",
				Items: valid.Items,
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.scenarios)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuiltinScenariosHaveEnoughItems(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	// 內建劇本必須支撐滿房（15 人上限受物品數限制，
	// 至少要讓最少開局人數 3 人玩完全部情境）
	for _, summary := range cat.List() {
		sc, _ := cat.Get(summary.ID)
		assert.GreaterOrEqual(t, len(sc.Items), 3*len(sc.Situations),
			"scenario %s cannot support a minimum game", sc.ID)
	}
}
