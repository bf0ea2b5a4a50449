package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	corpus := flag.String("corpus", "", "directory of documents, overrides index.corpusDir")
	batch := flag.Int("batch", 100, "documents per kafka write")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)
	log := logger.WithComponent("feeder")

	if *corpus != "" {
		cfg.Index.CorpusDir = *corpus
	}
	if cfg.Index.CorpusDir == "" {
		fmt.Fprintln(os.Stderr, "a corpus directory is required (-corpus)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := ingestion.LoadCorpus(cfg.Index.CorpusDir)
	if err != nil {
		log.Error("loading corpus failed", "error", err)
		os.Exit(1)
	}
	log.Info("corpus tokenized", "documents", len(docs), "dir", cfg.Index.CorpusDir)

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentTokens)
	defer producer.Close()

	sent, err := publisher.New(producer, *batch).Publish(ctx, docs)
	if err != nil {
		log.Error("publishing failed", "sent", sent, "error", err)
		os.Exit(1)
	}
	log.Info("corpus published", "documents", sent, "topic", cfg.Kafka.Topics.DocumentTokens)
}
