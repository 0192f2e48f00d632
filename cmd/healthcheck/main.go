// Package main is a container health probe that exits 0 when /livez answers 200.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/garyellow/line-menu-bot-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = "10000"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/livez", port))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "healthcheck: %v\n", err)
		os.Exit(1)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = fmt.Fprintf(os.Stderr, "healthcheck: status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}
