// Command compare runs one comparison and prints the three answers.
//
//	compare -config config.json "What is the capital of France?"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"wikirag/internal/app"
	"wikirag/internal/compare"
	"wikirag/internal/config"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config.json")
	showPrompt := flag.Bool("prompt", false, "also print the composed prompt")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	query := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(query) == "" {
		query = cfg.DefaultQuery
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pipeline, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline init error: %v\n", err)
		os.Exit(1)
	}

	result := pipeline.Run(ctx, query)
	printComparison(os.Stdout, result, *showPrompt)

	for _, p := range result.Panels() {
		if p.Failed() {
			os.Exit(2)
		}
	}
}

func printComparison(w io.Writer, c *compare.Comparison, showPrompt bool) {
	fmt.Fprintf(w, "Query: %s\n", c.Query)
	for _, p := range c.Panels() {
		fmt.Fprintf(w, "\n== %s ==\n", p.Title)
		switch {
		case p.Failed():
			fmt.Fprintf(w, "ERROR: %s\n", p.ErrorMessage())
		case p.Notice != "":
			fmt.Fprintln(w, p.Notice)
		default:
			fmt.Fprintln(w, p.Text)
		}
	}
	if showPrompt && c.Prompt != "" {
		fmt.Fprintf(w, "\n== Prompt ==\n%s\n", c.Prompt)
	}
}
