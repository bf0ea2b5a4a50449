package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank/store"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	links := flag.String("links", "", "link graph file, overrides pagerank.linksFile")
	method := flag.String("method", "", "power, 1-5 or a Monte Carlo method name, overrides pagerank.method")
	persist := flag.Bool("persist", false, "save every score to the authority store instead of printing the top")
	seed := flag.Uint64("seed", 0, "random seed for Monte Carlo methods, 0 for a random one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)
	log := logger.WithComponent("pagerank")

	if *links != "" {
		cfg.PageRank.LinksFile = *links
	}
	if *method != "" {
		cfg.PageRank.Method = *method
	}
	if *persist {
		cfg.PageRank.Persist = true
	}
	if *seed != 0 {
		cfg.PageRank.Seed = *seed
	}
	if cfg.PageRank.LinksFile == "" {
		fmt.Fprintln(os.Stderr, "a link graph file is required (-links)")
		os.Exit(2)
	}
	m, err := linkrank.ParseMethod(cfg.PageRank.Method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)

	var scoreStore store.Store
	if cfg.PageRank.Persist {
		scoreStore, err = store.Open(ctx, cfg, met)
		if err != nil {
			log.Error("opening authority store failed", "error", err)
			os.Exit(1)
		}
		defer scoreStore.Close()
	}

	ranker := linkrank.NewRanker(linkrank.Options{
		Method:        m,
		MaxIterations: cfg.PageRank.MaxIterations,
		Persist:       cfg.PageRank.Persist,
		TopN:          cfg.PageRank.TopN,
		Seed:          cfg.PageRank.Seed,
	}, scoreStore, os.Stdout, met)

	if _, err := ranker.Run(ctx, cfg.PageRank.LinksFile); err != nil {
		log.Error("ranking failed", "links", cfg.PageRank.LinksFile, "error", err)
		os.Exit(1)
	}
	if cfg.PageRank.Persist && cfg.Redis.Enabled {
		// cached combination and pagerank results carry the old authority
		if err := dropCachedResults(ctx, cfg, met); err != nil {
			log.Warn("dropping cached search results failed", "error", err)
		}
	}
}

func dropCachedResults(ctx context.Context, cfg *config.Config, m *metrics.Metrics) error {
	client, err := pkgredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()
	return cache.New(client, "", cfg.Redis.CacheTTL, m).Invalidate(ctx)
}
