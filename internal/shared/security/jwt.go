package security

import (
	"errors"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer     = "worddice"
	DefaultTTL = 7 * 24 * time.Hour

	// ScopeTournament 允许发起并保存锦标赛。
	ScopeTournament = "tournament:run"
	// ScopeReports 允许读取历史报告。
	ScopeReports = "reports:read"
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrTokenMissing     = errors.New("token is missing")
	ErrTokenScope       = errors.New("token scope not allowed")
)

type Claims struct {
	Client string   `json:"client"`
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// Allows 未声明 scope 的 token 视为全权限。
func (c *Claims) Allows(scope string) bool {
	if c == nil {
		return false
	}
	return len(c.Scopes) == 0 || slices.Contains(c.Scopes, scope)
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 给客户端签发 Token，ttl<=0 时使用 DefaultTTL。
func Award(client string, ttl time.Duration, scopes ...string) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := &Claims{
		Client: client,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   client,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken 解析并验证 Token。
func ParseToken(tokenStr string) (*Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Authorize 解析 token 并检查 scope，HTTP/WS/gRPC 三个入口共用。
// raw 可以带 "Bearer " 前缀；scope 不足时同时返回 claims 和 ErrTokenScope。
func Authorize(raw, scope string) (*Claims, error) {
	token := strings.TrimSpace(raw)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrTokenMissing
	}
	claims, err := ParseToken(token)
	if err != nil {
		return nil, err
	}
	if !claims.Allows(scope) {
		return claims, ErrTokenScope
	}
	return claims, nil
}

// DenyMessage 把 Authorize 的错误换成给客户端的提示语。
func DenyMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "缺少 token"
	case errors.Is(err, ErrTokenScope):
		return "token 权限不足"
	default:
		return "token 无效"
	}
}
