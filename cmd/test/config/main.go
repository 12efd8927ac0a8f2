package main

import (
	"fmt"
	"log"

	"go-leadgen-automation/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Query: %+v\n", cfg.Query())
	fmt.Printf("   Sources: %v\n", cfg.SourceList())
	fmt.Printf("   Fetch mode: %s (timeout %s, max %d records)\n", cfg.Fetch.Mode, cfg.Fetch.Timeout, cfg.Fetch.MaxRecords)
	fmt.Printf("   Pause: %s - %s\n", cfg.Fetch.PauseMin, cfg.Fetch.PauseMax)
	fmt.Printf("   Exports: %s, %s\n", cfg.Output.RawPath, cfg.Output.RankedPath)
	fmt.Printf("   Redis cache: %t\n", cfg.CacheEnabled())
	fmt.Printf("   Telegram digest: %t\n", cfg.TelegramEnabled())
	fmt.Printf("   Embeddings API: %t\n", cfg.Ranker.EmbeddingsAPIKey != "")
}
