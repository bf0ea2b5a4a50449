package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	corpus := flag.String("corpus", "", "index this directory once and exit instead of consuming kafka")
	flushEvery := flag.Duration("flush-interval", 30*time.Second, "how often consumed postings are written to disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)
	log := logger.WithComponent("indexer-main")

	met := metrics.New(prometheus.DefaultRegisterer)
	// always start from the postings already on disk
	idxCfg := cfg.Index
	idxCfg.FileBacked = true
	engine, err := indexer.NewEngine(idxCfg, met)
	if err != nil {
		log.Error("opening index failed", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(idxCfg.DataDir, 0o755); err != nil {
		log.Error("creating data directory failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fl := &flusher{engine: engine, log: log}
	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, cached search results will not be invalidated", "error", err)
		} else {
			defer client.Close()
			fl.results = cache.New(client, "", cfg.Redis.CacheTTL, met)
		}
	}

	if *corpus != "" {
		if n := engine.NumDocuments(); n > 0 {
			// postings files are append-only, so a second build would duplicate them
			log.Error("data directory already holds an index", "documents", n, "data_dir", idxCfg.DataDir)
			os.Exit(1)
		}
		if err := indexCorpus(ctx, engine, fl, *corpus); err != nil {
			log.Error("indexing corpus failed", "error", err)
			os.Exit(1)
		}
		log.Info("corpus indexed", "documents", engine.NumDocuments(), "data_dir", idxCfg.DataDir)
		return
	}

	kc := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentTokens, consumer.HandleMessage(engine, met))

	checker := health.NewChecker()
	checker.Register("index", func(context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents", engine.NumDocuments()),
		}
	})
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, map[string]http.Handler{
			"/healthz": checker.ReadyHandler(),
		})
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer kc.Close()
		return kc.Start(gctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(*flushEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := fl.Flush(gctx); err != nil {
					return fmt.Errorf("periodic flush: %w", err)
				}
			}
		}
	})

	log.Info("indexer consuming",
		"topic", cfg.Kafka.Topics.DocumentTokens,
		"group", cfg.Kafka.ConsumerGroup,
		"data_dir", idxCfg.DataDir,
	)
	runErr := g.Wait()
	fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fl.Flush(fctx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("final flush: %w", err))
	}
	if runErr != nil {
		log.Error("indexer stopped with error", "error", runErr)
		os.Exit(1)
	}
	log.Info("indexer stopped", "documents", engine.NumDocuments())
}

// flusher writes consumed postings to disk and drops cached search results
// whenever the flush changed the index.
type flusher struct {
	engine  *indexer.Engine
	results *cache.QueryCache
	log     *slog.Logger
}

func (f *flusher) Flush(ctx context.Context) error {
	before := f.engine.Generation()
	if err := f.engine.Flush(); err != nil {
		return err
	}
	if f.results == nil || f.engine.Generation() == before {
		return nil
	}
	if err := f.results.Invalidate(ctx); err != nil {
		f.log.Warn("dropping cached search results failed", "error", err)
	}
	return nil
}

func indexCorpus(ctx context.Context, engine *indexer.Engine, fl *flusher, dir string) error {
	docs, err := ingestion.LoadCorpus(dir)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		engine.IndexDocument(doc.DocID, doc.Name, doc.Tokens)
	}
	return fl.Flush(ctx)
}
