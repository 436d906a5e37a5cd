package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gamestore/internal/app/worker"
	"gamestore/internal/platform/config"
	"gamestore/internal/platform/logging"
	"gamestore/internal/platform/queue"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := queue.Connect(ctx, cfg)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	defer queue.Close(rdb, log)

	// Graceful shutdown on SIGINT or SIGTERM
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	mailWorker := worker.NewMailWorker(
		queue.NewMailQueue(rdb, cfg.MailQueueName),
		worker.NewLogMailer(log),
		cfg.MailFrom,
		cfg.AppURL,
		log,
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mailWorker.Start(ctx)
	}()

	<-sigs
	log.Info("shutdown signal received")
	cancel()

	wg.Wait()
	log.Info("worker exited cleanly")
}
