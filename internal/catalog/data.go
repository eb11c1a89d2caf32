package catalog

import "survivor_draft/internal/models"

// builtinScenarios 內建劇本
// 物品數量要足夠讓「玩家數 × 情境數」的抽選成立，
// 不足時開始遊戲會被拒絕
func builtinScenarios() []models.Scenario {
	return []models.Scenario{
		{
			ID:          "desert-island",
			Name:        "荒島求生",
			Description: "船難後漂流到無人島，你們必須撐到救援抵達",
			Items: []models.Item{
				{ID: "machete", Name: "開山刀", Description: "能砍開藤蔓，也能防身"},
				{ID: "flare-gun", Name: "信號槍", Description: "只有一發，用在對的時機"},
				{ID: "rope", Name: "粗麻繩", Description: "二十公尺長，結實耐用"},
				{ID: "tarp", Name: "防水布", Description: "能搭棚，也能集雨水"},
				{ID: "first-aid", Name: "急救箱", Description: "繃帶、消毒水和止痛藥"},
				{ID: "fishing-kit", Name: "釣具組", Description: "魚鉤、魚線和幾個假餌"},
				{ID: "lighter", Name: "防風打火機", Description: "油量大約還剩一半"},
				{ID: "pot", Name: "鐵鍋", Description: "煮水煮食都靠它"},
				{ID: "compass", Name: "指南針", Description: "玻璃面有裂痕但還能用"},
				{ID: "mirror", Name: "小鏡子", Description: "反光可以傳遞訊號"},
				{ID: "net", Name: "漁網", Description: "破了幾個洞，補一補還行"},
				{ID: "canteen", Name: "水壺", Description: "一公升容量，附濾網"},
				{ID: "machine-parts", Name: "引擎零件", Description: "從殘骸拆下來的，用途不明"},
				{ID: "blanket", Name: "羊毛毯", Description: "夜裡的海風比想像中冷"},
				{ID: "knife", Name: "瑞士刀", Description: "十二種工具一次滿足"},
			},
			Situations: []models.Situation{
				{ID: "storm-night", Description: "暴風雨今晚登陸，你要怎麼撐過去？"},
				{ID: "no-water", Description: "淡水喝完了，接下來三天怎麼辦？"},
				{ID: "rescue-plane", Description: "遠方出現一架飛機，如何讓它注意到你？"},
			},
		},
		{
			ID:          "zombie-city",
			Name:        "喪屍圍城",
			Description: "疫情爆發第七天，你們被困在市中心的超市裡",
			Items: []models.Item{
				{ID: "crowbar", Name: "鐵撬", Description: "開門、拆牆、敲腦袋"},
				{ID: "radio", Name: "無線電", Description: "偶爾能收到軍方頻道"},
				{ID: "car-keys", Name: "汽車鑰匙", Description: "停車場某輛車的，不知道是哪輛"},
				{ID: "med-bag", Name: "藥品袋", Description: "從藥局搜刮來的抗生素"},
				{ID: "shotgun", Name: "霰彈槍", Description: "剩六發，聲音會引來更多"},
				{ID: "map", Name: "市區地圖", Description: "有人用紅筆圈出了幾個地點"},
				{ID: "flashlight", Name: "強光手電筒", Description: "電池大概還能撐一晚"},
				{ID: "canned-food", Name: "罐頭箱", Description: "一整箱，夠吃一週"},
				{ID: "gasoline", Name: "汽油桶", Description: "十公升，易燃勿近火"},
				{ID: "armor", Name: "防咬護具", Description: "用雜誌和膠帶自製的"},
				{ID: "ladder", Name: "折疊梯", Description: "能上到二樓的高度"},
				{ID: "firework", Name: "煙火", Description: "聲光效果絕佳的誘餌"},
				{ID: "bolt-cutter", Name: "斷線鉗", Description: "沒有它剪不開的鎖"},
				{ID: "bicycle", Name: "腳踏車", Description: "無聲的交通工具"},
				{ID: "walkie", Name: "對講機", Description: "一對，範圍兩公里"},
			},
			Situations: []models.Situation{
				{ID: "horde", Description: "屍潮正往超市移動，十分鐘後抵達"},
				{ID: "survivor-call", Description: "無線電傳來求救：有倖存者被困在三條街外"},
				{ID: "evacuation", Description: "軍方宣布明早在河對岸撤離，你要怎麼過去？"},
			},
		},
		{
			ID:          "snow-mountain",
			Name:        "雪山迷途",
			Description: "登山隊在暴風雪中與基地失聯，標高三千八百公尺",
			Items: []models.Item{
				{ID: "ice-axe", Name: "冰斧", Description: "攀冰和自我制動的保命工具"},
				{ID: "tent", Name: "高山帳", Description: "抗風但少了兩根營釘"},
				{ID: "stove", Name: "高山爐", Description: "瓦斯罐只剩三分之一"},
				{ID: "gps", Name: "衛星定位器", Description: "螢幕凍裂了，訊號時有時無"},
				{ID: "down-jacket", Name: "羽絨外套", Description: "最後一件乾的"},
				{ID: "rations", Name: "行動糧", Description: "高熱量，味道像紙板"},
				{ID: "crampons", Name: "冰爪", Description: "在冰面上行走的唯一辦法"},
				{ID: "headlamp", Name: "頭燈", Description: "夜間行進必備"},
				{ID: "snow-shovel", Name: "雪鏟", Description: "挖雪洞避難用"},
				{ID: "thermos", Name: "保溫瓶", Description: "裝著早上泡的熱茶"},
				{ID: "beacon", Name: "雪崩信標", Description: "被埋時唯一的希望"},
				{ID: "rope-alpine", Name: "登山繩", Description: "五十公尺動力繩"},
				{ID: "goggles", Name: "雪鏡", Description: "防止雪盲"},
				{ID: "hand-warmer", Name: "暖暖包", Description: "一打，每個能熱八小時"},
				{ID: "whistle", Name: "求生哨", Description: "聲音能傳得比喊叫遠"},
			},
			Situations: []models.Situation{
				{ID: "whiteout", Description: "白矇天來襲，能見度不到五公尺"},
				{ID: "crevasse", Description: "隊友跌進冰河裂隙，意識清醒但爬不上來"},
				{ID: "frostbite", Description: "夜間氣溫降到零下二十五度，有人開始失溫"},
			},
		},
	}
}
