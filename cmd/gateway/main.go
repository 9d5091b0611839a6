// カタログGatewayサービスのエントリポイント。
// ログインによるトークン発行と、上流カタログサービスの商品の要約・絞り込み・検索を提供する。
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/catalog-gateway/internal/gateway"
	"github.com/nao1215/catalog-gateway/pkg/config"
)

// shutdownTimeout は停止時に処理中のリクエストを待つ最大時間。
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := gateway.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Gatewayサービスを起動します: :%s (upstream=%s)", cfg.Port, cfg.CatalogBaseURL)
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
		}
	case <-ctx.Done():
	}

	log.Println("Gatewayサービスを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("停止処理でエラーが発生: %v", err)
	}
}
