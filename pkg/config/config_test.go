package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ranked", cfg.Search.QueryType)
	assert.Equal(t, 10, cfg.Search.ChampionListSize)
	assert.Equal(t, 1000, cfg.PageRank.MaxIterations)
	assert.Equal(t, "file", cfg.Storage.AuthorityBackend)
	assert.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
search:
  rankingType: combination
  championListSize: 0
pagerank:
  method: complete-path
  seed: 42
redis:
  enabled: true
  cacheTTL: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "combination", cfg.Search.RankingType)
	assert.Equal(t, 0, cfg.Search.ChampionListSize)
	assert.Equal(t, "complete-path", cfg.PageRank.Method)
	assert.Equal(t, uint64(42), cfg.PageRank.Seed)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "unigram", cfg.Search.StructureType, "untouched fields keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SR_SEARCH_CHAMPION_LIST_SIZE", "25")
	t.Setenv("SR_REDIS_ADDR", "cache:6379")
	t.Setenv("SR_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Search.ChampionListSize)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("search: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Search.ChampionListSize = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PageRank.MaxIterations = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage.AuthorityBackend = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	pg := Default().Postgres
	assert.Equal(t, "host=localhost port=5432 user=searchcore password=localdev dbname=searchcore sslmode=disable", pg.DSN())
	my := Default().MySQL
	assert.Equal(t, "searchcore:localdev@tcp(localhost:3306)/searchcore?parseTime=true", my.DSN())
}
