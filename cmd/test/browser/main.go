package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go-leadgen-automation/internal/browser"
	"go-leadgen-automation/utils"

	"go.uber.org/zap"
)

func main() {
	url := flag.String("url", "https://remoteok.com/remote-golang-jobs", "page to open")
	cookiesPath := flag.String("cookies", "", "optional cookie export")
	flag.Parse()

	fmt.Println("🌐 Testing browser fetcher...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	pm, err := browser.NewPlaywright(ctx)
	if err != nil {
		log.Fatalf("Failed to create Playwright: %v", err)
	}
	defer pm.Close()
	fmt.Println("✅ Playwright started")

	cookies, err := browser.LoadCookies(*cookiesPath)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}
	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	f := browser.NewPageFetcher(pm, cookies, 30*time.Second, utils.NewScreenShotDebugger("", logger), logger)

	fmt.Printf("🔍 Navigating to %s...\n", *url)
	body, err := f.Fetch(ctx, *url)
	if err != nil {
		log.Fatalf("Failed to fetch: %v", err)
	}
	fmt.Printf("✅ Got %d bytes of HTML\n", len(body))
	fmt.Println("✨ Test complete!")
}
