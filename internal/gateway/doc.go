// Package gateway はカタログGatewayサービスのHTTP層を提供する。
//
// ログインによるBearerトークンの発行と、上流カタログサービスから取得した
// 商品の要約・絞り込み・検索を担当する。各コンポーネントが返すエラーを
// HTTPステータスに変換するのはこのパッケージだけである。
package gateway
