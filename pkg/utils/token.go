package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims 自定义 JWT Claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登录或刷新后下发的一对令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenManager 签发与校验访问令牌、刷新令牌
type TokenManager struct {
	issuer        string
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(issuer, accessSecret string, accessTTL time.Duration, refreshSecret string, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		issuer:        issuer,
		accessSecret:  []byte(accessSecret),
		accessTTL:     accessTTL,
		refreshSecret: []byte(refreshSecret),
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssuePair 为用户签发访问令牌和刷新令牌
func (m *TokenManager) IssuePair(userID int64) (*TokenPair, error) {
	access, err := m.sign(userID, TokenTypeAccess, m.accessSecret, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, TokenTypeRefresh, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess 校验访问令牌
func (m *TokenManager) ParseAccess(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenTypeAccess, m.accessSecret)
}

// ParseRefresh 校验刷新令牌
func (m *TokenManager) ParseRefresh(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) sign(userID int64, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti 保证同一秒内签发的令牌也互不相同，刷新令牌轮换依赖这一点
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (m *TokenManager) parse(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
