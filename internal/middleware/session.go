package middleware

import (
	"survivor_draft/internal/utils"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware 解析請求帶的 session token 並把穩定玩家身分放進上下文
// token 是選用的：瀏覽器的 WebSocket 無法自訂標頭，因此從 query 讀取；
// 沒有帶或驗證失敗時不中斷請求，連線仍可用名稱比對接回座位
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set("playerID", claims.PlayerID)
		c.Set("roomCode", claims.RoomCode)
		c.Next()
	}
}
