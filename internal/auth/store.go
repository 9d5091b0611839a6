package auth

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/nao1215/catalog-gateway/pkg/migration"
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// ErrCredentialNotFound は指定ユーザー名の資格情報が存在しないことを表す。
// Authenticatorの外には漏らさず、ErrAuthenticationFailedに変換される。
var ErrCredentialNotFound = errors.New("資格情報が見つかりません")

// decoyPassword はダミー資格情報の生成に使うパスワード。
const decoyPassword = "decoy-password"

// Credential は1ユーザー分の資格情報。
type Credential struct {
	// Username はユーザー名（大文字小文字を区別する）。
	Username string
	// PasswordHash はbcryptでハッシュ化したパスワード。
	PasswordHash []byte
}

// SeedUser は起動時に投入するユーザー。Passwordは平文で、投入時にハッシュ化される。
type SeedUser struct {
	Username string
	Password string
}

// DefaultUsers は組み込みの既知ユーザー一覧を返す。
func DefaultUsers() []SeedUser {
	return []SeedUser{
		{Username: "KINGICT", Password: "KINGICT"},
	}
}

// StoreOption はCredentialStoreの生成オプション。
type StoreOption func(*storeOptions)

type storeOptions struct {
	cost int
}

// WithBcryptCost はハッシュ化に使うbcryptのコストを指定する。
func WithBcryptCost(cost int) StoreOption {
	return func(o *storeOptions) {
		o.cost = cost
	}
}

// CredentialStore は読み取り専用の資格情報テーブル。
type CredentialStore struct {
	// db はインメモリSQLiteへの接続。:memory:は接続ごとに別DBになるため接続数は1に固定する。
	db *sql.DB
	// decoy はユーザーが存在しない場合にも照合時間を揃えるためのダミー資格情報。
	decoy Credential
}

// NewCredentialStore はusersを投入したCredentialStoreを生成する。
// 同じユーザー名が複数含まれる場合は先に現れたものが採用される。
func NewCredentialStore(ctx context.Context, users []SeedUser, opts ...StoreOption) (*CredentialStore, error) {
	o := storeOptions{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("インメモリDB接続に失敗: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := migration.Apply(ctx, db, migrationsFS, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), o.cost)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗 (username=%s): %w", u.Username, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO credentials (username, password_hash) VALUES (?, ?)",
			u.Username, hash,
		); err != nil {
			db.Close()
			return nil, fmt.Errorf("資格情報の投入に失敗 (username=%s): %w", u.Username, err)
		}
	}

	decoyHash, err := bcrypt.GenerateFromPassword([]byte(decoyPassword), o.cost)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ダミーハッシュの生成に失敗: %w", err)
	}

	return &CredentialStore{
		db:    db,
		decoy: Credential{PasswordHash: decoyHash},
	}, nil
}

// Lookup はユーザー名に一致する資格情報を返す。
// 一致するユーザーがいない場合はErrCredentialNotFoundを返す。
func (s *CredentialStore) Lookup(ctx context.Context, username string) (Credential, error) {
	var hash []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT password_hash FROM credentials WHERE username = ?", username,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, ErrCredentialNotFound
	}
	if err != nil {
		return Credential{}, fmt.Errorf("資格情報の取得に失敗: %w", err)
	}
	return Credential{Username: username, PasswordHash: hash}, nil
}

// Verify は平文パスワードがcredのハッシュと一致するかを返す。
// 比較はbcrypt.CompareHashAndPasswordに委ねる。
func (s *CredentialStore) Verify(cred Credential, password string) bool {
	return bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)) == nil
}

// Decoy は存在しないユーザーの照合に使うダミー資格情報を返す。
// 照合結果は認証の可否に使われない。
func (s *CredentialStore) Decoy() Credential {
	return s.decoy
}

// Close はDB接続を閉じる。
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
