package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
)

var jwtSecret = []byte("survivor_draft_session_secret") // 在實際應用中，這應該是一個環境變量

// SessionClaims 綁定穩定玩家身分與房間代碼的 session token
// 玩家身分由伺服器發放，與底層連線無關，重連時憑它接回原本的座位
type SessionClaims struct {
	PlayerID string `json:"player_id"`
	RoomCode string `json:"room_code"`
	jwt.StandardClaims
}

// GenerateSessionToken 發放一個新的 session token
func GenerateSessionToken(playerID, roomCode string) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(24 * time.Hour)

	claims := SessionClaims{
		PlayerID: playerID,
		RoomCode: roomCode,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(jwtSecret)
}

// ParseSessionToken 解析和驗證 session token
func ParseSessionToken(token string) (*SessionClaims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if tokenClaims != nil {
		if claims, ok := tokenClaims.Claims.(*SessionClaims); ok && tokenClaims.Valid {
			return claims, nil
		}
	}

	return nil, err
}
