package main

import (
	"fmt"
	"log"
	"os"

	"go-leadgen-automation/internal/browser"
)

func main() {
	fmt.Println("🍪 Testing cookie loading...")

	path := ".cookies/cookies-indeed.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cookies, err := browser.LoadCookies(path)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}

	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	//Print first cookie as example
	if len(cookies) > 0 {
		c := cookies[0].ToPlaywright()
		fmt.Printf("\nExample cookie:\n")
		fmt.Printf("Name: %s\n", c.Name)
		fmt.Printf("Domain: %s\n", *c.Domain)
		fmt.Printf("Path: %s\n", *c.Path)
		fmt.Printf("Secure: %t\n", c.Secure != nil && *c.Secure)
	}
}
