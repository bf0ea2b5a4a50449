// Package cache keeps ranked results in Redis keyed by the index they were
// evaluated against, the query vector and the retrieval modes. Concurrent misses for the same key are collapsed into a
// single evaluation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/redis"
)

const keyPrefix = "search:"

// Store is the key/value surface of pkg/redis.Client.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

type QueryCache struct {
	store   Store
	scope   string
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Scope names the evaluation context a result depends on beyond the query
// itself: where the postings came from and the champion list size.
func Scope(source string, championListSize int) string {
	return source + "|champions=" + strconv.Itoa(championListSize)
}

// New creates a cache whose keys are confined to scope, so results computed
// against a different index or champion list size never collide.
func New(store Store, scope string, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		scope:   scope,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, q *query.Query, opts executor.Options) (*index.PostingList, bool) {
	key := c.key(q, opts)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.metrics.ObserveCache(false)
		return nil, false
	}
	var postings []index.Posting
	if err := json.Unmarshal([]byte(data), &postings); err != nil {
		c.logger.Error("cache entry unreadable", "key", key, "error", err)
		c.metrics.ObserveCache(false)
		return nil, false
	}
	c.metrics.ObserveCache(true)
	return index.NewPostingListFrom(postings), true
}

func (c *QueryCache) Set(ctx context.Context, q *query.Query, opts executor.Options, result *index.PostingList) {
	key := c.key(q, opts)
	data, err := json.Marshal(result.Postings())
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for q or evaluates it with compute
// and caches it. The boolean reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	q *query.Query,
	opts executor.Options,
	compute func() (*index.PostingList, error),
) (*index.PostingList, bool, error) {
	if result, ok := c.Get(ctx, q, opts); ok {
		return result, true, nil
	}
	val, err, _ := c.group.Do(c.key(q, opts), func() (any, error) {
		result, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, q, opts, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*index.PostingList).Clone(), false, nil
}

// Invalidate drops every cached result in every scope. The indexer calls it
// after a flush that changed the postings and the link ranker after
// persisting new authority scores.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) key(q *query.Query, opts executor.Options) string {
	return buildKey(c.scope, q, opts)
}

// buildKey hashes the scope, the modes and the ordered term/weight pairs.
// Term order matters for phrase and bigram evaluation so it is kept.
func buildKey(scope string, q *query.Query, opts executor.Options) string {
	var b strings.Builder
	b.WriteString(scope)
	b.WriteByte('|')
	b.WriteString(opts.QueryType.String())
	b.WriteByte('|')
	b.WriteString(opts.RankingType.String())
	b.WriteByte('|')
	b.WriteString(opts.StructureType.String())
	for i, term := range q.Terms {
		b.WriteByte('|')
		b.WriteString(term)
		if i < len(q.Weights) {
			b.WriteByte('^')
			b.WriteString(strconv.FormatFloat(q.Weights[i], 'g', -1, 64))
		}
	}
	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
