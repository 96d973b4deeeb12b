package main

import (
	"context"
	"fmt"

	brokeralpaca "ml-trading-bot/internal/broker/alpaca"
	"ml-trading-bot/internal/broker/brokerobs"
	"ml-trading-bot/internal/logger"
	"ml-trading-bot/internal/model"
	"ml-trading-bot/internal/store"
	"ml-trading-bot/internal/trader"
	"ml-trading-bot/internal/tradelog"
)

// bootstrap resolves credentials and wires clients, model, and trader.
// Credential validation happens before any client is constructed, so a
// misconfigured run dies without touching the network.
func bootstrap(ctx context.Context, cfg *store.Config, modelOverride string) (*trader.Trader, func(), error) {
	creds, err := store.ResolveCredentials(cfg.Paper())
	if err != nil {
		return nil, nil, err
	}

	if cfg.Log.Dir != "" {
		tradelog.SetDir(cfg.Log.Dir)
	}
	if cfg.Log.RetentionDays > 0 {
		if err := tradelog.CompressOlder(cfg.Log.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}

	if cfg.Paper() {
		logger.Info(ctx, "Using paper trading account")
	} else {
		logger.Warn(ctx, "Using LIVE trading account - orders are real")
	}

	client := brokeralpaca.New(brokeralpaca.Params{
		Paper:       cfg.Paper(),
		Credentials: creds,
		Feed:        cfg.MarketData.Feed,
	})
	md := brokerobs.WrapMarketData(client)
	brk := brokerobs.WrapBrokerage(client)

	modelPath := cfg.Model.Path
	if modelOverride != "" {
		modelPath = modelOverride
	}
	if modelPath == "" {
		return nil, nil, fmt.Errorf("no model path: set -model or model.path in config")
	}

	predictor, err := model.Load(modelPath, model.Options{LibraryPath: cfg.Model.OrtLibrary})
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}

	tr := trader.New(cfg, md, brk, predictor)
	return tr, predictor.Close, nil
}
