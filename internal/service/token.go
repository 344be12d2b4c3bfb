package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"authdesk/internal/config"
	"authdesk/internal/model"
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService 簽發與驗證 HS256 bearer token
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ model.TokenIssuer = (*TokenService)(nil)
var _ model.TokenVerifier = (*TokenService)(nil)

// NewTokenService 由設定建立 TokenService
func NewTokenService(cfg config.JWT) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// Issue 依據使用者 ID 產生 JWT
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret not configured")
	}
	now := s.now()
	claims := CustomClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify 驗證並解析 JWT，回傳 subject。
// 簽章錯誤、格式錯誤、過期都包裝 model.ErrInvalidToken。
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, model.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject: %w", model.ErrInvalidToken, err)
	}
	return id, nil
}
