package jwt

import (
	"time"

	"activity-enroll-system/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 登录凭证负载
type Claims struct {
	Username string `json:"username"`
	RoleID   int    `json:"role_id"`
	jwt.RegisteredClaims
}

// GenerateToken 为指定用户签发访问令牌，有效期取配置 JWT.AccessExpire（秒）
func GenerateToken(username string, roleID int) (string, error) {
	cfg := config.Get().JWT
	now := time.Now()
	claims := &Claims{
		Username: username,
		RoleID:   roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.AccessExpire) * time.Second)),
			Issuer:    "activity-enroll-system",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSecret))
}

// ParseToken 解析并校验令牌，失败时 valid 为 false
func ParseToken(tokenStr string) (claims *Claims, valid bool) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}
	return claims, true
}
