// Package middleware はゲートウェイのHTTP APIで使用するGinミドルウェアを提供する。
//
// Bearerトークンの検証、リクエストIDの採番と伝播、パニックリカバリ、
// CORS設定を含む。
package middleware
