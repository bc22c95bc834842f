package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"wikirag/internal/api"
	"wikirag/internal/app"
	"wikirag/internal/config"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	pipeline, err := app.NewPipeline(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline init error: %v\n", err)
		os.Exit(1)
	}

	r := api.SetupRouter(cfg, pipeline)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[Main] Starting server on %s%s", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
