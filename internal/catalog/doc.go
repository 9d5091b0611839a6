// Package catalog は上流カタログサービスからの商品取得と、その整形を提供する。
//
// Clientは上流へ1回だけリクエストを送信して生のJSONを返す。
// DecodeList/DecodeProductは応答の形を検証してProductへ変換し、
// Projectは一覧表示用のProductSummaryへ射影し、Filterは
// カテゴリ・価格・タイトルの条件で商品を絞り込む。
package catalog
