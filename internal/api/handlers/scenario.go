package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"survivor_draft/internal/catalog"
)

// ScenarioHandler 處理劇本目錄相關的請求
type ScenarioHandler struct {
	catalog *catalog.Catalog
}

// NewScenarioHandler 創建一個新的 ScenarioHandler 實例
func NewScenarioHandler(cat *catalog.Catalog) *ScenarioHandler {
	return &ScenarioHandler{catalog: cat}
}

// List 回傳所有劇本的摘要列表
func (h *ScenarioHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.List())
}
