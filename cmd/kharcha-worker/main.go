package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/cli"
	"kharcha/internal/insight"
	applog "kharcha/internal/log"
	"kharcha/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting kharcha-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker reads store state directly; it only makes sense against
	// the durable backend.
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: without it the worker still re-evaluates on the
	// digest interval.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - relying on periodic evaluation only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	insightWorker := worker.NewInsightWorker(repo, repo, insight.NewEngine(),
		applog.New(applog.Config{Component: applog.ComponentWorker}))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return insightWorker.Run(ctx, cfg.DigestInterval)
	})

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeTransactionCreated(ctx, func(msg *amqp.TransactionCreatedMessage) error {
				return insightWorker.HandleTransactionCreated(ctx, msg)
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
