package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nao1215/catalog-gateway/pkg/clock"
)

// TokenTTL は発行するトークンの有効期間。
const TokenTTL = time.Hour

// tokenIssuer はトークンのissクレームに設定する値。
const tokenIssuer = "catalog-gateway"

var (
	// ErrEmptySigningKey は署名鍵が空であることを表す。
	ErrEmptySigningKey = errors.New("署名鍵が設定されていません")
	// ErrInvalidToken はトークンの署名・形式・有効期限のいずれかが不正であることを表す。
	ErrInvalidToken = errors.New("トークンが無効です")
)

// AuthToken は発行済みのBearerトークン。
type AuthToken struct {
	// Token はコンパクト形式の署名済みJWT。
	Token string
	// Subject はトークンの主体（ユーザー名）。
	Subject string
	// IssuedAt は発行時刻。
	IssuedAt time.Time
	// ExpiresAt は失効時刻。この時刻以降は受け付けない。
	ExpiresAt time.Time
}

// TokenIssuer はHS256で署名したJWTの発行と検証を行う。
type TokenIssuer struct {
	secret []byte
	clock  clock.Clock
	ttl    time.Duration
}

// NewTokenIssuer は新しいTokenIssuerを生成する。
func NewTokenIssuer(secret string, clk clock.Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySigningKey
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TokenIssuer{
		secret: []byte(secret),
		clock:  clk,
		ttl:    TokenTTL,
	}, nil
}

// Issue はusernameを主体とするトークンを発行する。
func (i *TokenIssuer) Issue(username string) (AuthToken, error) {
	now := i.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    tokenIssuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return AuthToken{}, fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}

	return AuthToken{
		Token:     signed,
		Subject:   username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate はトークンを検証し、主体のユーザー名を返す。
// 署名が現在の鍵で検証でき、かつ現在時刻がexpより前である場合のみ成功する。
// 時刻の猶予（leeway）は設けない。
func (i *TokenIssuer) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: subクレームがありません", ErrInvalidToken)
	}
	return claims.Subject, nil
}
