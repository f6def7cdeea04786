package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-optimizer/internal/backtest"
	"github.com/rxtech-lab/argo-optimizer/internal/config"
	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/optimizer"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var defaultMetrics = []string{"annual_return", "sharpe_ratio"}

// runAction loads the config and the prices, runs the sweep and prints the report.
func (d dependencies) runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	source, err := d.newSource(log)
	if err != nil {
		return err
	}
	defer source.Close()

	prices, err := source.Load(cfg.DataPath, cfg.Range())
	if err != nil {
		return err
	}

	fn, err := d.registry.Get(cfg.Strategy)
	if err != nil {
		return err
	}

	engine := backtest.NewVectorEngine(cfg.Engine, log)

	opt, err := optimizer.NewOptimizer(log, prices, fn, engine, cfg.Sweep())
	if err != nil {
		return err
	}

	log.Info("Loaded prices",
		zap.String("path", cfg.DataPath),
		zap.Int("bars", prices.Len()),
		zap.String("strategy", cfg.Strategy),
	)

	callbacks := optimizer.Callbacks{}

	if !cmd.Bool("no-progress") {
		var bar *progressbar.ProgressBar

		onStart := optimizer.OnSweepStartCallback(func(runID string, total int) error {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.Root().ErrWriter),
				progressbar.OptionSetDescription(fmt.Sprintf("%s %s", cfg.Strategy, prices.Symbol)),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			return nil
		})
		onPair := optimizer.OnPairDoneCallback(func(types.Pair, error, int, int) {
			_ = bar.Add(1)
		})
		onEnd := optimizer.OnSweepEndCallback(func(optimizer.Report) {
			if bar != nil {
				_ = bar.Finish()
			}
		})

		callbacks.OnSweepStart = &onStart
		callbacks.OnPairDone = &onPair
		callbacks.OnSweepEnd = &onEnd
	}

	result, err := opt.Run(ctx, callbacks)
	if err != nil {
		return err
	}

	return writeResult(cmd.Root().Writer, result, cmd.StringSlice("metric"))
}
