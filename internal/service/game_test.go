package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivor_draft/internal/models"
)

// recordingBroadcaster 把廣播事件記下來供測試檢查
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	room    string
	event   string
	payload any
}

func (b *recordingBroadcaster) BroadcastEvent(roomCode, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{room: roomCode, event: event, payload: payload})
}

func (b *recordingBroadcaster) eventsOfType(event string) []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []recordedEvent
	for _, e := range b.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

// testScenario 產生固定大小的劇本：item-1..item-N、sit-1..sit-M
func testScenario(items, situations int) *models.Scenario {
	sc := &models.Scenario{
		ID:   "test",
		Name: "測試劇本",
	}
	for i := 1; i <= items; i++ {
		sc.Items = append(sc.Items, models.Item{
			ID:   fmt.Sprintf("item-%d", i),
			Name: fmt.Sprintf("物品 %d", i),
		})
	}
	for i := 1; i <= situations; i++ {
		sc.Situations = append(sc.Situations, models.Situation{
			ID:          fmt.Sprintf("sit-%d", i),
			Description: fmt.Sprintf("情境 %d", i),
		})
	}
	return sc
}

func newTestRoom(t *testing.T, sc *models.Scenario, maxPlayers int, grace time.Duration) (*GameRoom, *recordingBroadcaster) {
	t.Helper()
	b := &recordingBroadcaster{}
	r := newGameRoom(roomOptions{
		Code:        "TEST01",
		Scenario:    sc,
		MaxPlayers:  maxPlayers,
		Grace:       grace,
		Broadcaster: b,
	})
	go r.Run()
	t.Cleanup(func() {
		r.closeOnce.Do(func() { close(r.done) })
	})
	return r, b
}

// attachPlayers 依序把玩家以已連線狀態加入房間，第一位是房主
func attachPlayers(t *testing.T, r *GameRoom, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := r.AttachPlayer(name, "", "")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func startGame(t *testing.T, r *GameRoom, ids []string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, r.ToggleReady(id))
	}
	require.NoError(t, r.StartGame(ids[0]))
}

func snapshot(t *testing.T, r *GameRoom) models.RoomSnapshot {
	t.Helper()
	snap, err := r.Snapshot()
	require.NoError(t, err)
	return snap
}

func playerByID(snap models.RoomSnapshot, id string) *models.Player {
	for i := range snap.Players {
		if snap.Players[i].ID == id {
			return &snap.Players[i]
		}
	}
	return nil
}

func TestAttachAndReady(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 5, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")

	snap := snapshot(t, r)
	require.Len(t, snap.Players, 3)
	assert.True(t, snap.Players[0].IsHost)
	assert.False(t, snap.Players[1].IsHost)
	for _, p := range snap.Players {
		assert.True(t, p.Connected)
		assert.False(t, p.IsReady)
	}

	require.NoError(t, r.ToggleReady(ids[1]))
	assert.True(t, playerByID(snapshot(t, r), ids[1]).IsReady)

	// 再切換一次回到未準備
	require.NoError(t, r.ToggleReady(ids[1]))
	assert.False(t, playerByID(snapshot(t, r), ids[1]).IsReady)

	assert.ErrorIs(t, r.ToggleReady("nobody"), ErrPlayerNotFound)
}

func TestAttachValidation(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 3, time.Second)
	attachPlayers(t, r, "小明", "小華", "小美")

	_, err := r.AttachPlayer("", "", "")
	assert.ErrorIs(t, err, ErrNameRequired)

	// 同名且已連線的玩家不能被搶走身分
	_, err = r.AttachPlayer("小明", "", "")
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = r.AttachPlayer("小強", "", "")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestStartGameRequirements(t *testing.T) {
	r, b := newTestRoom(t, testScenario(9, 3), 5, time.Second)
	ids := attachPlayers(t, r, "小明", "小華")

	assert.ErrorIs(t, r.StartGame(ids[1]), ErrNotHost)
	assert.ErrorIs(t, r.StartGame(ids[0]), ErrNotEnoughPlayers)

	ids = append(ids, attachPlayers(t, r, "小美")...)
	assert.ErrorIs(t, r.StartGame(ids[0]), ErrPlayersNotReady)

	for _, id := range ids {
		require.NoError(t, r.ToggleReady(id))
	}
	require.NoError(t, r.StartGame(ids[0]))

	snap := snapshot(t, r)
	assert.Equal(t, models.RoomStatusDrafting, snap.Status)
	assert.Equal(t, ids[0], snap.CurrentPlayerTurn)
	assert.NotEmpty(t, b.eventsOfType("draft-started"))

	// 遊戲開始後不能再開始、不能再準備
	assert.ErrorIs(t, r.StartGame(ids[0]), ErrInvalidState)
	assert.ErrorIs(t, r.ToggleReady(ids[0]), ErrInvalidState)
}

func TestStartGameNotEnoughItems(t *testing.T) {
	// 3 人 3 情境需要 9 件物品，只有 8 件時不能開局
	r, _ := newTestRoom(t, testScenario(8, 3), 5, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")
	for _, id := range ids {
		require.NoError(t, r.ToggleReady(id))
	}
	assert.ErrorIs(t, r.StartGame(ids[0]), ErrNotEnoughItems)
}

func TestDraftTurnOrder(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(8, 2), 4, time.Second)
	ids := attachPlayers(t, r, "甲", "乙", "丙", "丁")
	startGame(t, r, ids)

	// 依加入順序輪流：第 i 次抽選輪到 ids[i % 4]
	for i := 0; i < 8; i++ {
		snap := snapshot(t, r)
		require.Equal(t, models.RoomStatusDrafting, snap.Status)
		expected := ids[i%len(ids)]
		require.Equal(t, expected, snap.CurrentPlayerTurn, "pick %d", i)
		require.NoError(t, r.SelectItem(expected, fmt.Sprintf("item-%d", i+1)))
	}

	// 全員抽滿後進入情境階段
	snap := snapshot(t, r)
	assert.Equal(t, models.RoomStatusSituations, snap.Status)
	assert.Empty(t, snap.CurrentPlayerTurn)
	for _, p := range snap.Players {
		assert.Len(t, p.SelectedItems, 2)
	}
}

func TestDraftRules(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 5, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")
	startGame(t, r, ids)

	// 還沒輪到就不能選
	assert.ErrorIs(t, r.SelectItem(ids[1], "item-1"), ErrNotYourTurn)

	assert.ErrorIs(t, r.SelectItem(ids[0], "no-such-item"), ErrItemNotOwned)

	require.NoError(t, r.SelectItem(ids[0], "item-1"))

	// 被抽走的物品對其他人不再可選
	assert.ErrorIs(t, r.SelectItem(ids[1], "item-1"), ErrItemAlreadyTaken)
	require.NoError(t, r.SelectItem(ids[1], "item-2"))
}

// draftInOrder 讓每位玩家依序抽走 item-1, item-2, ... 直到進入情境階段
func draftInOrder(t *testing.T, r *GameRoom, ids []string) {
	t.Helper()
	item := 1
	for {
		snap := snapshot(t, r)
		if snap.Status != models.RoomStatusDrafting {
			return
		}
		require.NoError(t, r.SelectItem(snap.CurrentPlayerTurn, fmt.Sprintf("item-%d", item)))
		item++
	}
}

func TestSituationChoices(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(6, 2), 3, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")
	startGame(t, r, ids)
	draftInOrder(t, r, ids)

	snap := snapshot(t, r)
	require.Equal(t, models.RoomStatusSituations, snap.Status)
	require.NotNil(t, snap.CurrentSituation)
	assert.Equal(t, "sit-1", snap.CurrentSituation.ID)
	assert.Equal(t, 0, snap.CurrentSituationIndex)

	// 小明手上是 item-1、item-4：不能用別人的物品
	assert.ErrorIs(t, r.SelectItem(ids[0], "item-2"), ErrItemNotOwned)

	// 進入投票前可以反悔改選
	require.NoError(t, r.SelectItem(ids[0], "item-1"))
	require.NoError(t, r.SelectItem(ids[0], "item-4"))
	assert.Equal(t, "item-4", playerByID(snapshot(t, r), ids[0]).CurrentItemChoice)

	require.NoError(t, r.SelectItem(ids[1], "item-2"))
	require.NoError(t, r.SelectItem(ids[2], "item-3"))

	// 全員選定後進入投票，選擇固定寫入 usedItems
	snap = snapshot(t, r)
	assert.Equal(t, models.RoomStatusVoting, snap.Status)
	assert.Equal(t, []string{"item-4"}, playerByID(snap, ids[0]).UsedItems)

	// 投票中不能再改物品
	assert.ErrorIs(t, r.SelectItem(ids[0], "item-1"), ErrInvalidState)
}

func TestVotingAndTally(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(6, 2), 3, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")

	// 還沒進入投票階段不能投票
	assert.ErrorIs(t, r.Vote(ids[0], ids[1]), ErrInvalidState)

	startGame(t, r, ids)
	draftInOrder(t, r, ids)
	require.NoError(t, r.SelectItem(ids[0], "item-1"))
	require.NoError(t, r.SelectItem(ids[1], "item-2"))
	require.NoError(t, r.SelectItem(ids[2], "item-3"))
	require.Equal(t, models.RoomStatusVoting, snapshot(t, r).Status)

	assert.ErrorIs(t, r.Vote(ids[0], ids[0]), ErrSelfVote)
	assert.ErrorIs(t, r.Vote(ids[0], "nobody"), ErrPlayerNotFound)

	// 重複投票以最後一票為準：小明先投小美再改投小華
	require.NoError(t, r.Vote(ids[0], ids[2]))
	require.NoError(t, r.Vote(ids[0], ids[1]))
	require.NoError(t, r.Vote(ids[1], ids[0]))
	require.NoError(t, r.Vote(ids[2], ids[1]))

	// 結算：小華 2 票、小明 1 票，回到下一個情境
	snap := snapshot(t, r)
	assert.Equal(t, models.RoomStatusSituations, snap.Status)
	assert.Equal(t, 1, snap.CurrentSituationIndex)
	assert.Equal(t, "sit-2", snap.CurrentSituation.ID)
	assert.Equal(t, 2, playerByID(snap, ids[1]).VotesReceived)
	assert.Equal(t, 1, playerByID(snap, ids[0]).VotesReceived)
	assert.Empty(t, snap.Votes)
	for _, p := range snap.Players {
		assert.Empty(t, p.CurrentItemChoice)
	}
}

func TestFullGameFinishes(t *testing.T) {
	b := &recordingBroadcaster{}
	archived := make(chan models.RoomSnapshot, 1)
	r := newGameRoom(roomOptions{
		Code:        "TEST01",
		Scenario:    testScenario(6, 2),
		MaxPlayers:  3,
		Grace:       time.Second,
		Broadcaster: b,
		Archive: func(snap models.RoomSnapshot) {
			archived <- snap
		},
	})
	go r.Run()
	t.Cleanup(func() {
		r.closeOnce.Do(func() { close(r.done) })
	})

	ids := attachPlayers(t, r, "小明", "小華", "小美")
	startGame(t, r, ids)

	for situation := 0; situation < 2; situation++ {
		draftInOrder(t, r, ids)
		snap := snapshot(t, r)
		require.Equal(t, models.RoomStatusSituations, snap.Status)
		for _, id := range ids {
			p := playerByID(snap, id)
			require.NoError(t, r.SelectItem(id, p.SelectedItems[situation]))
		}
		require.NoError(t, r.Vote(ids[0], ids[1]))
		require.NoError(t, r.Vote(ids[1], ids[0]))
		require.NoError(t, r.Vote(ids[2], ids[1]))
	}

	snap := snapshot(t, r)
	assert.Equal(t, models.RoomStatusFinished, snap.Status)
	assert.Equal(t, 4, playerByID(snap, ids[1]).VotesReceived)
	assert.Equal(t, 2, playerByID(snap, ids[0]).VotesReceived)

	// 每位玩家的 usedItems 與情境一一對應
	for _, p := range snap.Players {
		assert.Len(t, p.UsedItems, 2)
	}

	select {
	case archivedSnap := <-archived:
		assert.Equal(t, models.RoomStatusFinished, archivedSnap.Status)
	case <-time.After(time.Second):
		t.Fatal("archive was not called after the game finished")
	}

	// 終局後所有動作都被拒絕
	assert.ErrorIs(t, r.Vote(ids[0], ids[1]), ErrInvalidState)
	assert.ErrorIs(t, r.SelectItem(ids[0], "item-1"), ErrInvalidState)
}

func TestReconnection(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 5, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")
	startGame(t, r, ids)
	require.NoError(t, r.SelectItem(ids[0], "item-1"))

	r.DetachSession(ids[0])
	assert.False(t, playerByID(snapshot(t, r), ids[0]).Connected)

	// 憑 session token 的穩定 ID 重連，身分與進度原樣接回
	reconnectedID, err := r.AttachPlayer("小明", ids[0], "")
	require.NoError(t, err)
	assert.Equal(t, ids[0], reconnectedID)

	p := playerByID(snapshot(t, r), ids[0])
	assert.True(t, p.Connected)
	assert.True(t, p.IsHost)
	assert.Equal(t, []string{"item-1"}, p.SelectedItems)
}

func TestReconnectionByName(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 5, time.Second)
	ids := attachPlayers(t, r, "小明", "小華", "小美")

	r.DetachSession(ids[1])

	// 沒有 token 時以名稱比對找回離線中的玩家
	reconnectedID, err := r.AttachPlayer("小華", "", "")
	require.NoError(t, err)
	assert.Equal(t, ids[1], reconnectedID)
}

func TestGraceExpiryInWaiting(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 5, 30*time.Millisecond)
	ids := attachPlayers(t, r, "小明", "小華")

	r.DetachSession(ids[1])

	// 寬限期過後等待中的玩家直接被移除
	require.Eventually(t, func() bool {
		return len(snapshot(t, r).Players) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, ids[0], snapshot(t, r).Players[0].ID)
}

func TestGraceExpiryDuringDraft(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(9, 3), 5, 30*time.Millisecond)
	ids := attachPlayers(t, r, "小明", "小華", "小美")
	startGame(t, r, ids)

	// 輪到房主時房主斷線
	r.DetachSession(ids[0])

	// 寬限期過後：保留座位但視同離場，系統替他抽選第一件
	// 可選物品，房主交棒給最早加入的在場玩家，輪到下一位
	require.Eventually(t, func() bool {
		snap := snapshot(t, r)
		p := playerByID(snap, ids[0])
		return len(p.SelectedItems) == 1 && !p.IsHost
	}, time.Second, 10*time.Millisecond)

	snap := snapshot(t, r)
	require.Len(t, snap.Players, 3)
	assert.Equal(t, []string{"item-1"}, playerByID(snap, ids[0]).SelectedItems)
	assert.True(t, playerByID(snap, ids[1]).IsHost)
	assert.Equal(t, ids[1], snap.CurrentPlayerTurn)

	// 剩下的玩家可以照常把遊戲玩完
	require.NoError(t, r.SelectItem(ids[1], "item-2"))
	require.NoError(t, r.SelectItem(ids[2], "item-3"))
}

func TestGraceExpiryDuringVoting(t *testing.T) {
	r, _ := newTestRoom(t, testScenario(6, 2), 3, 30*time.Millisecond)
	ids := attachPlayers(t, r, "小明", "小華", "小美")
	startGame(t, r, ids)
	draftInOrder(t, r, ids)
	require.NoError(t, r.SelectItem(ids[0], "item-1"))
	require.NoError(t, r.SelectItem(ids[1], "item-2"))
	require.NoError(t, r.SelectItem(ids[2], "item-3"))
	require.Equal(t, models.RoomStatusVoting, snapshot(t, r).Status)

	require.NoError(t, r.Vote(ids[0], ids[1]))
	require.NoError(t, r.Vote(ids[1], ids[0]))

	// 最後一位尚未投票就斷線：寬限期過後他的票棄權，
	// 其餘兩票直接結算
	r.DetachSession(ids[2])
	require.Eventually(t, func() bool {
		return snapshot(t, r).Status == models.RoomStatusSituations
	}, time.Second, 10*time.Millisecond)

	snap := snapshot(t, r)
	assert.Equal(t, 1, snap.CurrentSituationIndex)
	assert.Equal(t, 1, playerByID(snap, ids[0]).VotesReceived)
	assert.Equal(t, 1, playerByID(snap, ids[1]).VotesReceived)
}

func TestRoomClosesWhenEmpty(t *testing.T) {
	b := &recordingBroadcaster{}
	closed := make(chan string, 1)
	r := newGameRoom(roomOptions{
		Code:        "TEST01",
		Scenario:    testScenario(9, 3),
		MaxPlayers:  5,
		Grace:       30 * time.Millisecond,
		Broadcaster: b,
		OnClose: func(code string) {
			closed <- code
		},
	})
	go r.Run()

	ids := attachPlayers(t, r, "小明")
	r.DetachSession(ids[0])

	select {
	case code := <-closed:
		assert.Equal(t, "TEST01", code)
	case <-time.After(time.Second):
		t.Fatal("room was not closed after the last player left")
	}

	// 關閉後的動作回報房間已關閉
	_, err := r.AttachPlayer("小華", "", "")
	assert.ErrorIs(t, err, ErrRoomClosed)
}
