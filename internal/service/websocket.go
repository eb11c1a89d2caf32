package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSMessage 即時事件的統一信封
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// errorPayload 只送給出錯連線的 error 事件內容
type errorPayload struct {
	Message string `json:"message"`
}

// Client 代表一個 WebSocket 客戶端連線
// PlayerID 在 join-room 成功後才會被填入；連線本身沒有遊戲身分
type Client struct {
	Conn            *websocket.Conn
	RoomCode        string
	PlayerID        string
	SessionPlayerID string      // session token 帶來的穩定身分，可為空
	SendChan        chan []byte // 消息發送通道，用於異步傳送消息
	done            chan struct{}
}

// WebSocketManager 管理所有的 WebSocket 連線和消息傳遞
type WebSocketManager struct {
	clients    map[string]map[*Client]bool // 兩層 map: roomCode -> client -> bool
	clientsMux sync.RWMutex                // 用於保護 clients map 的讀寫鎖
	rooms      *RoomService
}

// NewWebSocketManager 建立並初始化 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]map[*Client]bool),
	}
}

// SetRoomService 注入房間註冊表（與 RoomService 互相引用，建構後設定）
func (m *WebSocketManager) SetRoomService(rooms *RoomService) {
	m.rooms = rooms
}

// HandleConnection 處理一條新的 WebSocket 連線，直到連線結束才返回
// sessionPlayerID 來自 session token，沒有 token 時為空字串
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn, sessionPlayerID string) {
	client := &Client{
		Conn:            conn,
		SessionPlayerID: sessionPlayerID,
		SendChan:        make(chan []byte, 256),
		done:            make(chan struct{}),
	}

	// 連線關閉時解除玩家綁定並清理資源
	// SendChan 不關閉，避免與廣播端競爭，由 done 通知 writePump 結束
	defer func() {
		if client.PlayerID != "" {
			if room, ok := m.rooms.FindRoom(client.RoomCode); ok {
				room.DetachSession(client.PlayerID)
			}
		}
		m.removeClient(client)
		conn.Close()
		close(client.done)
	}()

	go m.writePump(client)
	m.readPump(client)
}

// readPump 持續讀取並分派客戶端事件
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}

		m.handleEvent(client, msg)
	}
}

// handleEvent 把客戶端事件轉成房間動作
// 驗證失敗只回報給這條連線，不影響房間狀態
func (m *WebSocketManager) handleEvent(client *Client, msg WSMessage) {
	switch msg.Type {
	case "join-room":
		m.handleJoinRoom(client, msg.Data)

	case "player-ready":
		var payload struct {
			Code string `json:"code"`
		}
		m.runBoundAction(client, msg.Data, &payload, func(room *GameRoom) error {
			return room.ToggleReady(client.PlayerID)
		}, func() string { return payload.Code })

	case "start-game":
		var payload struct {
			Code string `json:"code"`
		}
		m.runBoundAction(client, msg.Data, &payload, func(room *GameRoom) error {
			return room.StartGame(client.PlayerID)
		}, func() string { return payload.Code })

	case "select-item":
		var payload struct {
			Code   string `json:"code"`
			ItemID string `json:"itemId"`
		}
		m.runBoundAction(client, msg.Data, &payload, func(room *GameRoom) error {
			return room.SelectItem(client.PlayerID, payload.ItemID)
		}, func() string { return payload.Code })

	case "vote":
		var payload struct {
			Code     string `json:"code"`
			PlayerID string `json:"playerId"`
		}
		m.runBoundAction(client, msg.Data, &payload, func(room *GameRoom) error {
			return room.Vote(client.PlayerID, payload.PlayerID)
		}, func() string { return payload.Code })

	default:
		m.sendError(client, "未知的事件類型")
	}
}

// handleJoinRoom 綁定連線與玩家身分；先註冊廣播對象再套用動作，
// 讓綁定成功後的第一次 room-updated 快照也送到這條連線
func (m *WebSocketManager) handleJoinRoom(client *Client, data json.RawMessage) {
	var payload struct {
		Code       string `json:"code"`
		PlayerName string `json:"playerName"`
		Passcode   string `json:"passcode"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(client, "無法解析事件內容")
		return
	}
	if client.PlayerID != "" {
		m.sendError(client, "此連線已加入房間")
		return
	}

	room, ok := m.rooms.FindRoom(payload.Code)
	if !ok {
		m.sendError(client, ErrRoomNotFound.Error())
		return
	}

	m.addClient(room.Code(), client)
	playerID, err := room.AttachPlayer(payload.PlayerName, client.SessionPlayerID, payload.Passcode)
	if err != nil {
		m.removeClient(client)
		m.sendError(client, err.Error())
		return
	}
	client.RoomCode = room.Code()
	client.PlayerID = playerID
}

// runBoundAction 解析事件內容、確認連線已綁定且房間代碼一致後執行動作
func (m *WebSocketManager) runBoundAction(client *Client, data json.RawMessage, payload any, action func(*GameRoom) error, code func() string) {
	if err := json.Unmarshal(data, payload); err != nil {
		m.sendError(client, "無法解析事件內容")
		return
	}
	if client.PlayerID == "" {
		m.sendError(client, "尚未加入房間")
		return
	}
	if NormalizeCode(code()) != client.RoomCode {
		m.sendError(client, ErrRoomNotFound.Error())
		return
	}
	room, ok := m.rooms.FindRoom(client.RoomCode)
	if !ok {
		m.sendError(client, ErrRoomNotFound.Error())
		return
	}
	if err := action(room); err != nil {
		m.sendError(client, err.Error())
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 心跳計時器，維持連線並偵測斷線
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-client.done:
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastEvent 向房間內所有連線廣播事件
func (m *WebSocketManager) BroadcastEvent(roomCode, event string, payload any) {
	message, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("failed to encode %s event for room %s: %v", event, roomCode, err)
		return
	}

	m.clientsMux.RLock()
	clients := make([]*Client, 0, len(m.clients[roomCode]))
	for client := range m.clients[roomCode] {
		clients = append(clients, client)
	}
	m.clientsMux.RUnlock()

	for _, client := range clients {
		select {
		case client.SendChan <- message:
			// 成功排入發送佇列
		default:
			// 發送佇列已滿，視為失效連線
			m.removeClient(client)
			client.Conn.Close()
		}
	}
}

// sendError 只送給出錯的那條連線
func (m *WebSocketManager) sendError(client *Client, message string) {
	data, err := encodeEvent("error", errorPayload{Message: message})
	if err != nil {
		return
	}
	select {
	case client.SendChan <- data:
	default:
	}
}

func encodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: event, Data: data})
}

// addClient 安全地登記連線為房間的廣播對象
func (m *WebSocketManager) addClient(roomCode string, client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[roomCode] == nil {
		m.clients[roomCode] = make(map[*Client]bool)
	}
	m.clients[roomCode][client] = true
}

// removeClient 安全地移除連線
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for roomCode, clients := range m.clients {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(m.clients, roomCode)
			}
		}
	}
}

// GetRoomClients 指定房間目前的連線數
func (m *WebSocketManager) GetRoomClients(roomCode string) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()
	return len(m.clients[roomCode])
}
