package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"survivor_draft/internal/models"
)

// Broadcaster 把事件推送給房間內所有已綁定的連線
type Broadcaster interface {
	BroadcastEvent(roomCode string, event string, payload any)
}

// roomAction 排入房間佇列的一個動作
// 房間狀態只能由房間自己的 goroutine 修改，所有讀寫都透過佇列序列化，
// 動作套用後的廣播會在下一個動作處理前送出
type roomAction struct {
	fn    func() error
	reply chan error
}

// GameRoom 一個遊戲房間的權威狀態機
type GameRoom struct {
	code       string
	maxPlayers int
	scenario   *models.Scenario
	passcode   []byte // bcrypt 雜湊，空值代表公開房間

	status         models.RoomStatus
	players        []*models.Player // 加入順序即顯示順序與預設回合順序
	currentTurn    string           // drafting 階段輪到的玩家 ID
	situationIndex int
	votes          map[string]string // 投票者 ID -> 被投者 ID

	left        map[string]bool // 寬限期已過、視同離場的玩家
	graceTimers map[string]*time.Timer

	actions   chan roomAction
	done      chan struct{}
	closeOnce sync.Once

	broadcaster Broadcaster
	grace       time.Duration
	onClose     func(code string)
	archive     func(snap models.RoomSnapshot)
}

// roomOptions 建立房間所需的參數
type roomOptions struct {
	Code        string
	Scenario    *models.Scenario
	MaxPlayers  int
	Passcode    []byte
	Grace       time.Duration
	Broadcaster Broadcaster
	OnClose     func(code string)
	Archive     func(snap models.RoomSnapshot)
}

func newGameRoom(opts roomOptions) *GameRoom {
	return &GameRoom{
		code:        opts.Code,
		maxPlayers:  opts.MaxPlayers,
		scenario:    opts.Scenario,
		passcode:    opts.Passcode,
		status:      models.RoomStatusWaiting,
		votes:       make(map[string]string),
		left:        make(map[string]bool),
		graceTimers: make(map[string]*time.Timer),
		actions:     make(chan roomAction, 64),
		done:        make(chan struct{}),
		broadcaster: opts.Broadcaster,
		grace:       opts.Grace,
		onClose:     opts.OnClose,
		archive:     opts.Archive,
	}
}

// Run 房間的主迴圈，每個房間一個 goroutine，依序處理動作直到房間關閉
func (r *GameRoom) Run() {
	for {
		select {
		case act := <-r.actions:
			act.reply <- act.fn()
		case <-r.done:
			return
		}
	}
}

// dispatch 把動作排入佇列並等待結果
func (r *GameRoom) dispatch(fn func() error) error {
	act := roomAction{fn: fn, reply: make(chan error, 1)}
	select {
	case r.actions <- act:
	case <-r.done:
		return ErrRoomClosed
	}
	select {
	case err := <-act.reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

// Code 回傳房間代碼（建立後不變，可直接讀取）
func (r *GameRoom) Code() string {
	return r.code
}

// Snapshot 取得目前的完整房間快照
func (r *GameRoom) Snapshot() (models.RoomSnapshot, error) {
	var snap models.RoomSnapshot
	err := r.dispatch(func() error {
		snap = r.snapshotLocked()
		return nil
	})
	return snap, err
}

// JoinPlayer 透過 REST 加入房間：建立玩家紀錄但尚未綁定連線
// 若玩家在寬限期內沒有建立即時連線，會被自動移除
func (r *GameRoom) JoinPlayer(name, passcode string) (string, models.RoomSnapshot, error) {
	var playerID string
	var snap models.RoomSnapshot
	err := r.dispatch(func() error {
		p, err := r.addPlayerLocked(name, passcode, false)
		if err != nil {
			return err
		}
		playerID = p.ID
		r.broadcastState()
		snap = r.snapshotLocked()
		return nil
	})
	return playerID, snap, err
}

// AttachPlayer 把一條即時連線綁定到玩家身分
// 優先以 session token 的穩定 ID 尋找，其次以名稱比對；找到未綁定的
// 既有玩家即視為重連，沿用原本的身分與進度，否則建立新玩家
func (r *GameRoom) AttachPlayer(name, sessionPlayerID, passcode string) (string, error) {
	var playerID string
	err := r.dispatch(func() error {
		var p *models.Player
		if sessionPlayerID != "" {
			p = r.findPlayer(sessionPlayerID)
		}
		if p == nil && name != "" {
			p = r.findPlayerByName(name)
		}
		if p != nil {
			if p.Connected {
				return ErrNameTaken
			}
			r.stopGraceTimer(p.ID)
			delete(r.left, p.ID)
			p.Connected = true
			playerID = p.ID
			r.broadcastState()
			return nil
		}

		np, err := r.addPlayerLocked(name, passcode, true)
		if err != nil {
			return err
		}
		playerID = np.ID
		r.broadcastState()
		return nil
	})
	return playerID, err
}

// DetachSession 連線中斷時呼叫：玩家標記為離線但保留在房間內，
// 啟動寬限期計時，期間內重連可原位接回
func (r *GameRoom) DetachSession(playerID string) {
	_ = r.dispatch(func() error {
		p := r.findPlayer(playerID)
		if p == nil || !p.Connected {
			return nil
		}
		p.Connected = false
		r.startGraceTimer(p.ID)
		r.broadcastMessage(p.Name + " 斷線，等待重新連線…")
		r.broadcastState()
		return nil
	})
}

// addPlayerLocked 驗證並新增玩家，第一位加入者成為房主
func (r *GameRoom) addPlayerLocked(name, passcode string, connected bool) (*models.Player, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(r.players) > 0 {
		if r.status != models.RoomStatusWaiting {
			return nil, ErrInvalidState
		}
		if len(r.players) >= r.maxPlayers {
			return nil, ErrRoomFull
		}
		if r.findPlayerByName(name) != nil {
			return nil, ErrNameTaken
		}
		if len(r.passcode) > 0 {
			if err := bcrypt.CompareHashAndPassword(r.passcode, []byte(passcode)); err != nil {
				return nil, ErrWrongPasscode
			}
		}
	}

	p := &models.Player{
		ID:            uuid.New().String(),
		Name:          name,
		IsHost:        len(r.players) == 0,
		SelectedItems: []string{},
		UsedItems:     []string{},
		Connected:     connected,
	}
	r.players = append(r.players, p)
	if !connected {
		r.startGraceTimer(p.ID)
	}
	return p, nil
}

// startGraceTimer 啟動（或重設）玩家的寬限期計時
func (r *GameRoom) startGraceTimer(playerID string) {
	r.stopGraceTimer(playerID)
	r.graceTimers[playerID] = time.AfterFunc(r.grace, func() {
		// 計時器在房間 goroutine 之外觸發，一律轉成佇列動作處理，
		// 避免與玩家動作競爭
		_ = r.dispatch(func() error {
			return r.handleGraceExpiry(playerID)
		})
	})
}

func (r *GameRoom) stopGraceTimer(playerID string) {
	if t, ok := r.graceTimers[playerID]; ok {
		t.Stop()
		delete(r.graceTimers, playerID)
	}
}

// handleGraceExpiry 寬限期到期仍未重連：等待中直接移除玩家，
// 遊戲中保留座位但視同離場，流程替他自動補完，不讓其他人卡住
func (r *GameRoom) handleGraceExpiry(playerID string) error {
	delete(r.graceTimers, playerID)
	p := r.findPlayer(playerID)
	if p == nil || p.Connected {
		return nil
	}

	if r.status == models.RoomStatusWaiting {
		r.removePlayerLocked(playerID)
		if len(r.players) == 0 {
			r.closeRoom()
			return nil
		}
		r.broadcastMessage(p.Name + " 離開了房間")
		r.broadcastState()
		return nil
	}

	r.left[playerID] = true
	if p.IsHost {
		r.transferHost(playerID)
	}
	r.autoResolveLeaver()
	if r.activeCount() == 0 {
		r.closeRoom()
		return nil
	}
	r.broadcastMessage(p.Name + " 已離場")
	r.broadcastState()
	return nil
}

// removePlayerLocked 只在 waiting 狀態使用：把玩家從房間移出
func (r *GameRoom) removePlayerLocked(playerID string) {
	for i, p := range r.players {
		if p.ID == playerID {
			wasHost := p.IsHost
			r.players = append(r.players[:i], r.players[i+1:]...)
			delete(r.left, playerID)
			if wasHost && len(r.players) > 0 {
				r.players[0].IsHost = true
			}
			return
		}
	}
}

// transferHost 房主永久離場時，由最早加入且仍在場的玩家接任
func (r *GameRoom) transferHost(leavingID string) {
	for _, p := range r.players {
		if p.ID == leavingID {
			p.IsHost = false
		}
	}
	for _, p := range r.players {
		if p.ID != leavingID && !r.left[p.ID] {
			p.IsHost = true
			return
		}
	}
}

// activeCount 仍在場（未被視同離場）的玩家數
func (r *GameRoom) activeCount() int {
	count := 0
	for _, p := range r.players {
		if !r.left[p.ID] {
			count++
		}
	}
	return count
}

func (r *GameRoom) findPlayer(id string) *models.Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *GameRoom) findPlayerByName(name string) *models.Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// closeRoom 停掉所有計時器並關閉房間，通知註冊表移除
func (r *GameRoom) closeRoom() {
	for id, t := range r.graceTimers {
		t.Stop()
		delete(r.graceTimers, id)
	}
	r.closeOnce.Do(func() {
		close(r.done)
		if r.onClose != nil {
			r.onClose(r.code)
		}
	})
}

// snapshotLocked 組出目前狀態的深拷貝快照
func (r *GameRoom) snapshotLocked() models.RoomSnapshot {
	players := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		cp := *p
		cp.SelectedItems = append([]string(nil), p.SelectedItems...)
		cp.UsedItems = append([]string(nil), p.UsedItems...)
		players = append(players, cp)
	}

	votes := make(map[string]string, len(r.votes))
	for voter, candidate := range r.votes {
		votes[voter] = candidate
	}

	snap := models.RoomSnapshot{
		Code:                  r.code,
		Status:                r.status,
		MaxPlayers:            r.maxPlayers,
		Players:               players,
		Scenario:              r.scenario,
		CurrentPlayerTurn:     r.currentTurn,
		CurrentSituationIndex: r.situationIndex,
		Votes:                 votes,
		HasPasscode:           len(r.passcode) > 0,
	}

	if (r.status == models.RoomStatusSituations || r.status == models.RoomStatusVoting) &&
		r.situationIndex < len(r.scenario.Situations) {
		st := r.scenario.Situations[r.situationIndex]
		snap.CurrentSituation = &st
	}
	return snap
}

func (r *GameRoom) broadcastState() {
	r.broadcaster.BroadcastEvent(r.code, "room-updated", r.snapshotLocked())
}

func (r *GameRoom) broadcastMessage(content string) {
	r.broadcaster.BroadcastEvent(r.code, "message", content)
}
