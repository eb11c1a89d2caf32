package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"survivor_draft/internal/repository"
)

// MatchHandler 處理對局存檔查詢的請求
type MatchHandler struct {
	matchRepo repository.MatchRepository
}

// NewMatchHandler 創建一個新的 MatchHandler 實例
func NewMatchHandler(matchRepo repository.MatchRepository) *MatchHandler {
	return &MatchHandler{matchRepo: matchRepo}
}

// ListRecent 查詢最近結束的對局
func (h *MatchHandler) ListRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.matchRepo.FindRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢對局紀錄"})
		return
	}

	c.JSON(http.StatusOK, records)
}
