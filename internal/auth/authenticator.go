package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrAuthenticationFailed はユーザー名またはパスワードが誤っていることを表す。
// どちらが原因かは区別しない。
var ErrAuthenticationFailed = errors.New("ユーザー名またはパスワードが正しくありません")

// credentialSource はAuthenticatorが必要とする資格情報の参照操作。
type credentialSource interface {
	Lookup(ctx context.Context, username string) (Credential, error)
	Verify(cred Credential, password string) bool
	Decoy() Credential
}

// Authenticator はログイン処理（資格情報の照合とトークン発行）を行う。
type Authenticator struct {
	store  credentialSource
	issuer *TokenIssuer
}

// NewAuthenticator は新しいAuthenticatorを生成する。
func NewAuthenticator(store credentialSource, issuer *TokenIssuer) *Authenticator {
	return &Authenticator{
		store:  store,
		issuer: issuer,
	}
}

// Login はusernameとpasswordを照合し、成功すればトークンを発行する。
// 照合に失敗した場合はErrAuthenticationFailedを返す。
// それ以外のエラーは想定外の障害として呼び出し元に返す。
func (a *Authenticator) Login(ctx context.Context, username, password string) (AuthToken, error) {
	cred, err := a.store.Lookup(ctx, username)
	if errors.Is(err, ErrCredentialNotFound) {
		// 存在しないユーザーでもハッシュ照合を1回行い、応答時間を揃える
		a.store.Verify(a.store.Decoy(), password)
		return AuthToken{}, ErrAuthenticationFailed
	}
	if err != nil {
		return AuthToken{}, fmt.Errorf("資格情報の参照に失敗: %w", err)
	}

	if !a.store.Verify(cred, password) {
		return AuthToken{}, ErrAuthenticationFailed
	}

	token, err := a.issuer.Issue(cred.Username)
	if err != nil {
		return AuthToken{}, fmt.Errorf("トークン発行に失敗: %w", err)
	}
	return token, nil
}

// ValidateToken はトークンを検証し、主体のユーザー名を返す。
func (a *Authenticator) ValidateToken(tokenString string) (string, error) {
	return a.issuer.Validate(tokenString)
}
