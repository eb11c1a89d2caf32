package service

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"survivor_draft/internal/catalog"
	"survivor_draft/internal/models"
	"survivor_draft/internal/repository"
	"survivor_draft/pkg/config"
)

// 人數上限的合法範圍
const (
	minRoomSize = 3
	maxRoomSize = 15
)

// 房間代碼使用的字元集，避免混淆的 0/O、1/I 不另處理，
// 輸入時一律轉成大寫比對
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomService 房間註冊表：發放唯一代碼、建立與查找房間、
// 在房間清空後將其移除
type RoomService struct {
	mu    sync.RWMutex
	rooms map[string]*GameRoom

	catalog     *catalog.Catalog
	broadcaster Broadcaster
	matchRepo   repository.MatchRepository
	codeLength  int
	grace       time.Duration
}

// NewRoomService 建立房間註冊表
// matchRepo 可為 nil，此時結束的遊戲不會存檔
func NewRoomService(cat *catalog.Catalog, broadcaster Broadcaster, matchRepo repository.MatchRepository, game config.GameConfig) *RoomService {
	codeLength := game.RoomCodeLength
	if codeLength <= 0 {
		codeLength = 6
	}
	grace := time.Duration(game.GraceSeconds) * time.Second
	if grace <= 0 {
		grace = 30 * time.Second
	}
	return &RoomService{
		rooms:       make(map[string]*GameRoom),
		catalog:     cat,
		broadcaster: broadcaster,
		matchRepo:   matchRepo,
		codeLength:  codeLength,
		grace:       grace,
	}
}

// CreateRoom 建立新房間，建立者成為唯一玩家兼房主
// 回傳房間快照與房主的玩家 ID
func (s *RoomService) CreateRoom(hostName, scenarioID string, maxPlayers int, passcode string) (models.RoomSnapshot, string, error) {
	if hostName == "" {
		return models.RoomSnapshot{}, "", ErrNameRequired
	}
	if maxPlayers < minRoomSize || maxPlayers > maxRoomSize {
		return models.RoomSnapshot{}, "", ErrInvalidMaxPlayers
	}
	scenario, ok := s.catalog.Get(scenarioID)
	if !ok {
		return models.RoomSnapshot{}, "", ErrScenarioNotFound
	}

	var passcodeHash []byte
	if passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if err != nil {
			return models.RoomSnapshot{}, "", err
		}
		passcodeHash = hash
	}

	s.mu.Lock()
	code := s.generateCodeLocked()
	room := newGameRoom(roomOptions{
		Code:        code,
		Scenario:    scenario,
		MaxPlayers:  maxPlayers,
		Passcode:    passcodeHash,
		Grace:       s.grace,
		Broadcaster: s.broadcaster,
		OnClose:     s.removeRoom,
		Archive:     s.archiveMatch,
	})
	s.rooms[code] = room
	s.mu.Unlock()

	go room.Run()

	playerID, snap, err := room.JoinPlayer(hostName, passcode)
	if err != nil {
		// 理論上不會發生：空房間的第一位玩家不受任何限制
		s.removeRoom(code)
		return models.RoomSnapshot{}, "", err
	}

	log.Printf("room %s created by %s (scenario=%s, maxPlayers=%d)", code, hostName, scenarioID, maxPlayers)
	return snap, playerID, nil
}

// FindRoom 依代碼查找房間，代碼比對不分大小寫
func (s *RoomService) FindRoom(code string) (*GameRoom, bool) {
	normalized := NormalizeCode(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[normalized]
	return room, ok
}

// JoinRoom 透過 REST 加入房間
func (s *RoomService) JoinRoom(code, playerName, passcode string) (models.RoomSnapshot, string, error) {
	room, ok := s.FindRoom(code)
	if !ok {
		return models.RoomSnapshot{}, "", ErrRoomNotFound
	}
	playerID, snap, err := room.JoinPlayer(playerName, passcode)
	if err != nil {
		return models.RoomSnapshot{}, "", err
	}
	return snap, playerID, nil
}

// RoomCount 目前註冊的房間數
func (s *RoomService) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// NormalizeCode 房間代碼一律以大寫儲存與比對
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// generateCodeLocked 產生不與現存房間衝突的代碼，呼叫時須持有寫鎖
func (s *RoomService) generateCodeLocked() string {
	for {
		code := randomCode(s.codeLength)
		if _, exists := s.rooms[code]; !exists {
			return code
		}
	}
}

func randomCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand 失敗表示系統層級出問題，直接中止
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}

// removeRoom 把房間從註冊表移除（房間清空或建立失敗時）
func (s *RoomService) removeRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		delete(s.rooms, code)
		log.Printf("room %s removed", code)
	}
}

// matchStanding 存檔用的單一玩家名次
type matchStanding struct {
	Name          string `json:"name"`
	VotesReceived int    `json:"votesReceived"`
}

// archiveMatch 遊戲結束時以最佳努力寫入存檔
// 失敗只記錄 log，不影響房間
func (s *RoomService) archiveMatch(snap models.RoomSnapshot) {
	if s.matchRepo == nil {
		return
	}

	standings := make([]matchStanding, 0, len(snap.Players))
	for _, p := range snap.Players {
		standings = append(standings, matchStanding{Name: p.Name, VotesReceived: p.VotesReceived})
	}
	// 得票由高到低，平手時保留加入順序
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].VotesReceived > standings[j].VotesReceived
	})

	data, err := json.Marshal(standings)
	if err != nil {
		log.Printf("failed to encode standings for room %s: %v", snap.Code, err)
		return
	}

	record := &models.MatchRecord{
		RoomCode:   snap.Code,
		ScenarioID: snap.Scenario.ID,
		Winner:     standings[0].Name,
		Standings:  string(data),
		FinishedAt: time.Now(),
	}
	if err := s.matchRepo.Create(record); err != nil {
		log.Printf("failed to archive match for room %s: %v", snap.Code, err)
	}
}
