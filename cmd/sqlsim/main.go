package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"sqlsim/internal/config"
	"sqlsim/internal/db"
	"sqlsim/internal/memdb"
	"sqlsim/internal/runner"
	"sqlsim/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seed := flag.Int64("seed", 0, "override the configured seed")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	util.SetVerbose(cfg.Logging.Verbose)
	logFile, err := util.SetupLogFile(cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer util.CloseWithErr(logFile, "log file")
	}

	util.Infof("starting sqlsim with %d worker(s) seed=%d", cfg.Workers, cfg.Seed)
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	errCh := make(chan error, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			workerCfg := cfg
			workerCfg.Seed = cfg.Seed + int64(worker)
			if cfg.Workers > 1 {
				workerCfg.Engine.Database = fmt.Sprintf("%s_w%d", cfg.Engine.Database, worker)
			}
			if err := runWorker(ctx, worker, workerCfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func runWorker(ctx context.Context, worker int, cfg config.Config) error {
	var exec runner.Executor
	switch cfg.Engine.Kind {
	case config.EngineMySQL:
		conn, err := db.OpenEngine(ctx, cfg.Engine, true)
		if err != nil {
			return fmt.Errorf("worker %d: connect: %w", worker, err)
		}
		defer util.CloseWithErr(conn, "db")
		util.Infof("worker %d using database %s", worker, cfg.Engine.Database)
		exec = conn
	default:
		exec = memdb.New()
	}
	r := runner.New(cfg, exec)
	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("worker %d: %w", worker, err)
	}
	return nil
}
