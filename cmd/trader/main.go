package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"ml-trading-bot/internal/eod"
	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/store"
	"ml-trading-bot/internal/trace"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath   = flag.String("config", "config.yaml", "Path to config file")
		symbol       = flag.String("symbol", "", "Ticker symbol to trade, e.g. SPY")
		signalSymbol = flag.String("signal-symbol", "", "Symbol to derive the signal from (defaults to -symbol)")
		modelPath    = flag.String("model", "", "Path to serialized model (overrides config)")
		runEOD       = flag.Bool("eod", false, "Write the end-of-day summary and exit")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *runEOD {
		path, err := eod.SummarizeToday(cfg.Log.Dir)
		if err != nil {
			log.Fatalf("eod summary failed: %v", err)
		}
		if path != "" {
			fmt.Println("EOD CSV written:", path)
		}
		return
	}

	if *symbol == "" {
		flag.Usage()
		log.Fatal("-symbol is required")
	}
	if *signalSymbol == "" {
		*signalSymbol = *symbol
	}

	tr, cleanup, err := bootstrap(ctx, cfg, *modelPath)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer cleanup()

	result, err := tr.Run(ctx, *symbol, *signalSymbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Decision cycle aborted", err, "symbol", *symbol)
		os.Exit(1)
	}

	b, _ := json.Marshal(result)
	fmt.Println(string(b))
}
