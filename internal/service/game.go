package service

import (
	"fmt"

	"survivor_draft/internal/models"
)

// draftStartedPayload waiting→drafting 轉換時隨 draft-started 事件送出
type draftStartedPayload struct {
	Room    models.RoomSnapshot `json:"room"`
	Message string              `json:"message"`
}

// ToggleReady 切換玩家的準備狀態，只在 waiting 階段有效
func (r *GameRoom) ToggleReady(playerID string) error {
	return r.dispatch(func() error {
		if r.status != models.RoomStatusWaiting {
			return ErrInvalidState
		}
		p := r.findPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.IsReady = !p.IsReady
		r.broadcastState()
		return nil
	})
}

// StartGame 房主開始遊戲：所有玩家都已準備且人數達標時，
// 進入抽選階段，由房主先選
func (r *GameRoom) StartGame(playerID string) error {
	return r.dispatch(func() error {
		if r.status != models.RoomStatusWaiting {
			return ErrInvalidState
		}
		p := r.findPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		if !p.IsHost {
			return ErrNotHost
		}
		if len(r.players) < 3 {
			return ErrNotEnoughPlayers
		}
		for _, pl := range r.players {
			if !pl.IsReady {
				return ErrPlayersNotReady
			}
		}
		// 每位玩家每個情境要消耗一件物品，物品不夠時抽選永遠無法完成
		if len(r.scenario.Items) < len(r.players)*len(r.scenario.Situations) {
			return ErrNotEnoughItems
		}

		r.status = models.RoomStatusDrafting
		r.currentTurn = p.ID

		message := fmt.Sprintf("物資抽選開始！由 %s 先選", p.Name)
		r.broadcaster.BroadcastEvent(r.code, "draft-started", draftStartedPayload{
			Room:    r.snapshotLocked(),
			Message: message,
		})
		r.broadcastState()
		return nil
	})
}

// SelectItem 依房間狀態解讀同一個事件：
// drafting 是輪流抽選物品，situations 是為當前情境指定自己的物品
func (r *GameRoom) SelectItem(playerID, itemID string) error {
	return r.dispatch(func() error {
		switch r.status {
		case models.RoomStatusDrafting:
			return r.draftItemLocked(playerID, itemID)
		case models.RoomStatusSituations:
			return r.chooseItemLocked(playerID, itemID)
		default:
			return ErrInvalidState
		}
	})
}

// draftItemLocked 抽選階段：只有輪到的玩家能選，選走的物品對其他人不再可選
func (r *GameRoom) draftItemLocked(playerID, itemID string) error {
	if playerID != r.currentTurn {
		return ErrNotYourTurn
	}
	p := r.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !r.scenarioHasItem(itemID) {
		return ErrItemNotOwned
	}
	if r.itemTaken(itemID) {
		return ErrItemAlreadyTaken
	}

	p.SelectedItems = append(p.SelectedItems, itemID)
	r.advanceDraft()
	r.broadcastState()
	return nil
}

// chooseItemLocked 情境階段：從自己手上還沒用過的物品中挑一件，
// 進入投票前可以重複更改
func (r *GameRoom) chooseItemLocked(playerID, itemID string) error {
	p := r.findPlayer(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !contains(p.SelectedItems, itemID) || contains(p.UsedItems, itemID) {
		return ErrItemNotOwned
	}

	p.CurrentItemChoice = itemID
	r.checkSituationComplete()
	r.broadcastState()
	return nil
}

// Vote 投票階段：不能投自己，重複投票以最後一票為準
func (r *GameRoom) Vote(voterID, candidateID string) error {
	return r.dispatch(func() error {
		if r.status != models.RoomStatusVoting {
			return ErrInvalidState
		}
		if r.findPlayer(voterID) == nil || r.findPlayer(candidateID) == nil {
			return ErrPlayerNotFound
		}
		if voterID == candidateID {
			return ErrSelfVote
		}

		r.votes[voterID] = candidateID
		r.checkVotingComplete()
		r.broadcastState()
		return nil
	})
}

// advanceDraft 一次抽選後推進：全員抽滿就進入情境階段，否則輪到下一位
func (r *GameRoom) advanceDraft() {
	if r.draftComplete() {
		r.enterSituations()
		return
	}
	r.advanceTurn()
	r.runAutoTurns()
}

// advanceTurn 依加入順序輪替，跳過已抽滿的玩家
func (r *GameRoom) advanceTurn() {
	idx := 0
	for i, p := range r.players {
		if p.ID == r.currentTurn {
			idx = i
			break
		}
	}
	quota := len(r.scenario.Situations)
	n := len(r.players)
	for i := 1; i <= n; i++ {
		next := r.players[(idx+i)%n]
		if len(next.SelectedItems) < quota {
			r.currentTurn = next.ID
			return
		}
	}
}

// runAutoTurns 輪到已離場玩家時替他選第一件還沒被拿走的物品，
// 連續離場者會一路自動補完
func (r *GameRoom) runAutoTurns() {
	for r.status == models.RoomStatusDrafting && r.left[r.currentTurn] {
		p := r.findPlayer(r.currentTurn)
		itemID := r.firstFreeItem()
		if p == nil || itemID == "" {
			return
		}
		p.SelectedItems = append(p.SelectedItems, itemID)
		if r.draftComplete() {
			r.enterSituations()
			return
		}
		r.advanceTurn()
	}
}

func (r *GameRoom) draftComplete() bool {
	quota := len(r.scenario.Situations)
	for _, p := range r.players {
		if len(p.SelectedItems) < quota {
			return false
		}
	}
	return true
}

// enterSituations 進入（或回到）情境階段
func (r *GameRoom) enterSituations() {
	r.status = models.RoomStatusSituations
	r.currentTurn = ""
	st := r.scenario.Situations[r.situationIndex]
	r.broadcastMessage(fmt.Sprintf("第 %d 個情境：%s", r.situationIndex+1, st.Description))
	r.autoFillChoices()
	r.checkSituationComplete()
}

// autoFillChoices 替已離場的玩家指定第一件未使用的物品
func (r *GameRoom) autoFillChoices() {
	for _, p := range r.players {
		if !r.left[p.ID] || p.CurrentItemChoice != "" {
			continue
		}
		for _, itemID := range p.SelectedItems {
			if !contains(p.UsedItems, itemID) {
				p.CurrentItemChoice = itemID
				break
			}
		}
	}
}

// checkSituationComplete 所有玩家都有選擇後，選擇固定寫入
// usedItems 並進入投票階段
func (r *GameRoom) checkSituationComplete() {
	if r.status != models.RoomStatusSituations {
		return
	}
	for _, p := range r.players {
		if p.CurrentItemChoice == "" {
			return
		}
	}

	for _, p := range r.players {
		p.UsedItems = append(p.UsedItems, p.CurrentItemChoice)
	}
	r.status = models.RoomStatusVoting
	r.votes = make(map[string]string)
	r.checkVotingComplete()
}

// checkVotingComplete 所有在場玩家都投完票就結算
// 已離場者不列入必要投票人，他們先前投下的票仍然有效
func (r *GameRoom) checkVotingComplete() {
	if r.status != models.RoomStatusVoting {
		return
	}
	required := 0
	for _, p := range r.players {
		if r.left[p.ID] {
			continue
		}
		required++
		if _, voted := r.votes[p.ID]; !voted {
			return
		}
	}
	if required == 0 {
		return
	}
	r.tallyVotes()
}

// tallyVotes 結算：累計得票、清空投票與暫定選擇，
// 還有情境就回到情境階段，否則遊戲結束
func (r *GameRoom) tallyVotes() {
	for _, candidateID := range r.votes {
		if p := r.findPlayer(candidateID); p != nil {
			p.VotesReceived++
		}
	}
	r.votes = make(map[string]string)
	for _, p := range r.players {
		p.CurrentItemChoice = ""
	}
	r.situationIndex++

	if r.situationIndex < len(r.scenario.Situations) {
		r.enterSituations()
		return
	}
	r.finishGame()
}

// finishGame 終局：廣播結果並以最佳努力存檔
func (r *GameRoom) finishGame() {
	r.status = models.RoomStatusFinished
	r.currentTurn = ""

	winner := r.players[0]
	for _, p := range r.players {
		if p.VotesReceived > winner.VotesReceived {
			winner = p
		}
	}
	r.broadcastMessage(fmt.Sprintf("遊戲結束！優勝者：%s（%d 票）", winner.Name, winner.VotesReceived))

	if r.archive != nil {
		snap := r.snapshotLocked()
		go r.archive(snap)
	}
}

// autoResolveLeaver 玩家被判定離場後，依當前階段補完他卡住的動作
func (r *GameRoom) autoResolveLeaver() {
	switch r.status {
	case models.RoomStatusDrafting:
		r.runAutoTurns()
	case models.RoomStatusSituations:
		r.autoFillChoices()
		r.checkSituationComplete()
	case models.RoomStatusVoting:
		r.checkVotingComplete()
	}
}

func (r *GameRoom) scenarioHasItem(itemID string) bool {
	for _, item := range r.scenario.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// itemTaken 物品是否已被任何玩家抽走
func (r *GameRoom) itemTaken(itemID string) bool {
	for _, p := range r.players {
		if contains(p.SelectedItems, itemID) {
			return true
		}
	}
	return false
}

// firstFreeItem 第一件還沒被任何人抽走的物品
func (r *GameRoom) firstFreeItem() string {
	for _, item := range r.scenario.Items {
		if !r.itemTaken(item.ID) {
			return item.ID
		}
	}
	return ""
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
