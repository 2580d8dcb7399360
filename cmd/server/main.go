package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filestore/scheduler/core/config"
	"github.com/filestore/scheduler/core/metrics"
	"github.com/filestore/scheduler/core/scheduler"
	"github.com/filestore/scheduler/core/server"
	"github.com/filestore/scheduler/core/store"
	"github.com/filestore/scheduler/lib/logger"
	"github.com/urfave/cli/v2"
)

var log, _ = logger.New("server-cli")

func main() {
	app := &cli.App{
		Name:  "filestore-server",
		Usage: "concurrent file-storage server with pluggable request scheduling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "sched",
				Required: true,
				Usage:    "scheduling policy: fcfs, sjf, or rr",
			},
			&cli.IntFlag{
				Name:  "quantum",
				Usage: "RR time quantum in milliseconds (required iff --sched rr)",
			},
			&cli.StringFlag{
				Name:     "file",
				Required: true,
				Usage:    "file or directory to preload into the store",
			},
			&cli.IntFlag{
				Name:     "p",
				Required: true,
				Usage:    "packetization: lines per send batch for GET responses in non-RR mode",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalw("startup", "error", err)
	}
}

func run(ctx *cli.Context) error {
	policy, err := scheduler.ParsePolicy(ctx.String("sched"))
	if err != nil {
		return err
	}

	quantum := time.Duration(ctx.Int("quantum")) * time.Millisecond
	if policy == scheduler.RR && quantum <= 0 {
		return fmt.Errorf("--quantum is required and must be > 0 for --sched rr")
	}

	packetSize := ctx.Int("p")
	if packetSize <= 0 {
		return fmt.Errorf("--p must be > 0")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log.Infow("startup",
		"server_ip", cfg.ServerIP, "server_port", cfg.ServerPort,
		"server_threads", cfg.ServerThreads, "sched", policy.String(),
		"quantum_ms", ctx.Int("quantum"), "packet_size", packetSize)

	st := store.New()
	if err := st.PreloadPath(ctx.String("file")); err != nil {
		return fmt.Errorf("preloading %s: %w", ctx.String("file"), err)
	}

	sched, err := scheduler.New(policy, quantum)
	if err != nil {
		return err
	}

	sink := metrics.New()

	srv, err := server.New(cfg, st, sched, sink, packetSize)
	if err != nil {
		return err
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Infow("shutdown requested", "signal", sig.String())
		srv.Shutdown()
	}()

	runErr := srv.Run()

	log.Infow("saving metrics", "count", sink.Len())
	f, err := os.Create("metrics.csv")
	if err != nil {
		log.Errorw("metrics dump", "error", err)
	} else {
		if err := sink.Dump(f); err != nil {
			log.Errorw("metrics dump", "error", err)
		}
		_ = f.Close()
	}

	log.Info("shutdown complete")
	return runErr
}
