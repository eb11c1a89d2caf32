package service

import "errors"

// 遊戲動作的錯誤分類。驗證失敗只會拒絕該次動作並回報給
// 發出動作的連線，不影響房間狀態也不廣播
var (
	ErrRoomNotFound      = errors.New("房間不存在")
	ErrRoomFull          = errors.New("房間人數已滿")
	ErrRoomClosed        = errors.New("房間已關閉")
	ErrNameRequired      = errors.New("請輸入玩家名稱")
	ErrNameTaken         = errors.New("這個名稱已有人使用")
	ErrInvalidState      = errors.New("目前的房間狀態不允許此操作")
	ErrNotYourTurn       = errors.New("還沒輪到你選擇")
	ErrItemAlreadyTaken  = errors.New("這個物品已被其他玩家選走")
	ErrItemNotOwned      = errors.New("你沒有這個物品，或已經使用過")
	ErrSelfVote          = errors.New("不能投票給自己")
	ErrPlayerNotFound    = errors.New("找不到這名玩家")
	ErrNotHost           = errors.New("只有房主可以開始遊戲")
	ErrNotEnoughPlayers  = errors.New("至少需要 3 名玩家才能開始")
	ErrPlayersNotReady   = errors.New("還有玩家尚未準備")
	ErrNotEnoughItems    = errors.New("劇本物品數量不足以供所有玩家抽選")
	ErrScenarioNotFound  = errors.New("劇本不存在")
	ErrInvalidMaxPlayers = errors.New("人數上限必須介於 3 到 15 之間")
	ErrWrongPasscode     = errors.New("房間密碼錯誤")
)
