package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank/store"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	corpus := flag.String("corpus", "", "build the index from this directory instead of opening index.dataDir")
	raw := flag.String("query", "", "query text; wrap it in double quotes for a phrase query")
	queryType := flag.String("type", "", "intersection, phrase or ranked")
	ranking := flag.String("ranking", "", "tf_idf, pagerank or combination")
	structure := flag.String("structure", "", "unigram, bigram or subphrase")
	limit := flag.Int("limit", 0, "number of results to print")
	feedback := flag.String("feedback", "", "comma separated 1-based ranks of relevant results; reruns the refined query")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)
	log := logger.WithComponent("searcher")

	if *raw == "" {
		fmt.Fprintln(os.Stderr, "a query is required (-query)")
		os.Exit(2)
	}
	applyFlag(&cfg.Search.QueryType, *queryType)
	applyFlag(&cfg.Search.RankingType, *ranking)
	applyFlag(&cfg.Search.StructureType, *structure)
	applyFlag(&cfg.Index.CorpusDir, *corpus)
	if *limit > 0 {
		cfg.Search.ResultLimit = *limit
	}

	plan := parser.Parse(*raw)
	opts, err := resolveOptions(cfg.Search, plan.Quoted)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	relevantRanks, err := parseRanks(*feedback)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	met := metrics.New(prometheus.NewRegistry())
	engine, err := openEngine(cfg, met, log)
	if err != nil {
		log.Error("opening index failed", "error", err)
		os.Exit(1)
	}
	if cfg.Index.CorpusDir == "" && opts.StructureType != index.StructureUnigram {
		log.Warn("biword postings are only built from a corpus, bigram results will be empty",
			"structure", opts.StructureType.String())
	}

	exec := executor.New(engine, cfg.Search.ChampionListSize, met)
	if opts.RankingType != index.RankingTFIDF {
		authority, err := loadAuthority(ctx, cfg, met)
		if err != nil {
			log.Warn("authority scores unavailable, every document scores 0", "error", err)
		}
		exec.SetAuthority(authority)
	}

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled && len(relevantRanks) == 0 {
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, result caching disabled", "error", err)
		} else {
			defer client.Close()
			queryCache = cache.New(client, cache.Scope(indexSource(cfg.Index), cfg.Search.ChampionListSize), cfg.Redis.CacheTTL, met)
		}
	}

	results, err := run(ctx, exec, queryCache, plan.Query, opts)
	if err != nil {
		log.Error("query failed", "query", plan.RawQuery, "error", err)
		os.Exit(1)
	}
	fmt.Printf("query: %s\n", plan.Query)
	printResults(os.Stdout, engine, results, cfg.Search.ResultLimit)

	if len(relevantRanks) == 0 {
		return
	}
	relevant := make([]bool, results.Len())
	for _, r := range relevantRanks {
		if r <= len(relevant) {
			relevant[r-1] = true
		}
	}
	refined := exec.RelevanceFeedback(plan.Query, results, relevant, opts.StructureType)
	results, err = exec.Execute(refined, opts)
	if err != nil {
		log.Error("refined query failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nrefined query: %s\n", refined)
	printResults(os.Stdout, engine, results, cfg.Search.ResultLimit)
}

func applyFlag(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func resolveOptions(sc config.SearchConfig, quoted bool) (executor.Options, error) {
	qt, err := executor.ParseQueryType(sc.QueryType)
	if err != nil {
		return executor.Options{}, err
	}
	if quoted {
		qt = executor.QueryPhrase
	}
	rt, err := index.ParseRanking(sc.RankingType)
	if err != nil {
		return executor.Options{}, err
	}
	st, err := index.ParseStructure(sc.StructureType)
	if err != nil {
		return executor.Options{}, err
	}
	return executor.Options{QueryType: qt, RankingType: rt, StructureType: st}, nil
}

func parseRanks(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ranks := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, apperrors.Newf(apperrors.ErrInvalidInput, "parse feedback", "invalid result rank %q", p)
		}
		ranks = append(ranks, n)
	}
	return ranks, nil
}

func openEngine(cfg *config.Config, m *metrics.Metrics, log *slog.Logger) (*indexer.Engine, error) {
	if cfg.Index.CorpusDir == "" {
		idxCfg := cfg.Index
		idxCfg.FileBacked = true
		return indexer.NewEngine(idxCfg, m)
	}
	engine, err := indexer.NewEngine(config.IndexConfig{DataDir: cfg.Index.DataDir}, m)
	if err != nil {
		return nil, err
	}
	docs, err := ingestion.LoadCorpus(cfg.Index.CorpusDir)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		engine.IndexDocument(doc.DocID, doc.Name, doc.Tokens)
	}
	log.Info("corpus indexed in memory", "documents", engine.NumDocuments(), "bigrams", engine.NumBigrams())
	return engine, nil
}

// indexSource names where the engine's postings come from, so results from a
// throwaway corpus build never mix with those of the flushed index.
func indexSource(ic config.IndexConfig) string {
	if ic.CorpusDir != "" {
		return "corpus:" + ic.CorpusDir
	}
	return "index:" + ic.DataDir
}

func loadAuthority(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (map[string]float64, error) {
	s, err := store.Open(ctx, cfg, m)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	scores, err := s.Load(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return scores, err
}

func run(ctx context.Context, exec *executor.Executor, qc *cache.QueryCache, q *query.Query, opts executor.Options) (*index.PostingList, error) {
	if qc == nil {
		return exec.Execute(q, opts)
	}
	results, _, err := qc.GetOrCompute(ctx, q, opts, func() (*index.PostingList, error) {
		return exec.Execute(q, opts)
	})
	return results, err
}

func printResults(w io.Writer, names executor.Source, results *index.PostingList, limit int) {
	if results.Len() == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	n := results.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		p := results.Get(i)
		name, ok := names.DocName(p.DocID)
		if !ok {
			name = strconv.Itoa(p.DocID)
		}
		fmt.Fprintf(w, "%d. %s %.6f\n", i+1, name, p.Score)
	}
}
