// Package auth は資格情報の検証とBearerトークンの発行を提供する。
//
// 既知ユーザーの一覧は起動時に一度だけインメモリSQLiteへ投入され、
// 以降は読み取り専用となる。パスワードはbcryptでハッシュ化して保持し、
// ログインに成功したユーザーにはHS256で署名した1時間有効のJWTを発行する。
// ユーザーが存在しない場合とパスワードが誤っている場合は、呼び出し元から
// 区別できないよう同一のErrAuthenticationFailedを返す。
package auth
