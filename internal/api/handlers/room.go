package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"survivor_draft/internal/models"
	"survivor_draft/internal/service"
	"survivor_draft/internal/utils"
)

// RoomHandler 處理房間建立與加入的請求
// 房間建立之後的所有遊戲動作都走即時連線，不經過 REST
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// roomResponse 回傳房間快照外加這名玩家自己的身分與 session token
type roomResponse struct {
	models.RoomSnapshot
	PlayerID string `json:"playerId"`
	Token    string `json:"token,omitempty"`
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		PlayerName string `json:"playerName" binding:"required"`
		ScenarioID string `json:"scenarioId" binding:"required"`
		MaxPlayers int    `json:"maxPlayers" binding:"required"`
		Passcode   string `json:"passcode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, playerID, err := h.roomService.CreateRoom(input.PlayerName, input.ScenarioID, input.MaxPlayers, input.Passcode)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.buildResponse(snap, playerID))
}

// JoinRoom 處理加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input struct {
		PlayerName string `json:"playerName" binding:"required"`
		Passcode   string `json:"passcode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrNameRequired.Error()})
		return
	}

	snap, playerID, err := h.roomService.JoinRoom(c.Param("code"), input.PlayerName, input.Passcode)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.buildResponse(snap, playerID))
}

// GetRoom 處理查詢房間快照的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, ok := h.roomService.FindRoom(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrRoomNotFound.Error()})
		return
	}
	snap, err := room.Snapshot()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *RoomHandler) buildResponse(snap models.RoomSnapshot, playerID string) roomResponse {
	token, err := utils.GenerateSessionToken(playerID, snap.Code)
	if err != nil {
		// token 只是重連的輔助手段，發放失敗不擋下加入流程
		log.Printf("failed to generate session token for player %s: %v", playerID, err)
		token = ""
	}
	return roomResponse{RoomSnapshot: snap, PlayerID: playerID, Token: token}
}

// statusForError 把遊戲錯誤分類對應到 HTTP 狀態碼
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrWrongPasscode):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidMaxPlayers),
		errors.Is(err, service.ErrScenarioNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
