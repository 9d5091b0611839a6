// Package httpclient は上流サービスへのHTTP通信を行うクライアントを提供する。
//
// Gatewayが上流カタログサービスを呼び出す際に使用する。
// タイムアウト付きで1回だけリクエストを送信し、2xx以外の応答は
// ステータスコードを保持した*StatusErrorとして返す。
package httpclient
