// Package config loads and validates the search core configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// the index, query processing, link ranking and every storage/transport
// backend the drivers can wire in.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	PageRank PageRankConfig `yaml:"pagerank"`
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// IndexConfig controls where per-term postings files live and whether the
// engine answers lookups from disk instead of memory.
type IndexConfig struct {
	DataDir    string `yaml:"dataDir"`
	FileBacked bool   `yaml:"fileBacked"`
	CorpusDir  string `yaml:"corpusDir"`
}

// SearchConfig selects the default retrieval modes and limits.
type SearchConfig struct {
	QueryType        string `yaml:"queryType"`
	RankingType      string `yaml:"rankingType"`
	StructureType    string `yaml:"structureType"`
	ChampionListSize int    `yaml:"championListSize"`
	ResultLimit      int    `yaml:"resultLimit"`
}

// PageRankConfig controls the link-graph ranking run.
type PageRankConfig struct {
	LinksFile     string `yaml:"linksFile"`
	Method        string `yaml:"method"`
	MaxIterations int    `yaml:"maxIterations"`
	Persist       bool   `yaml:"persist"`
	Seed          uint64 `yaml:"seed"`
	TopN          int    `yaml:"topN"`
}

// StorageConfig selects the authority score backend: "file", "postgres" or
// "mysql".
type StorageConfig struct {
	AuthorityBackend string `yaml:"authorityBackend"`
	AuthorityFile    string `yaml:"authorityFile"`
	AuthorityTable   string `yaml:"authorityTable"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// MySQLConfig holds MySQL connection parameters.
type MySQLConfig struct {
	Addr     string `yaml:"addr"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// DSN returns a go-sql-driver/mysql data source name.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", m.User, m.Password, m.Addr, m.Port, m.Database)
}

// RedisConfig holds Redis connection and result-cache parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	DocumentTokens string `yaml:"documentTokens"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			DataDir: "./index",
		},
		Search: SearchConfig{
			QueryType:        "ranked",
			RankingType:      "tf_idf",
			StructureType:    "unigram",
			ChampionListSize: 10,
			ResultLimit:      10,
		},
		PageRank: PageRankConfig{
			Method:        "power",
			MaxIterations: 1000,
			TopN:          50,
		},
		Storage: StorageConfig{
			AuthorityBackend: "file",
			AuthorityFile:    "./pagerank.score",
			AuthorityTable:   "authority_scores",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "searchcore",
			User:            "searchcore",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		MySQL: MySQLConfig{
			Addr:     "localhost",
			Port:     3306,
			Database: "searchcore",
			User:     "searchcore",
			Password: "localdev",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "searchcore-indexer",
			Topics: KafkaTopics{
				DocumentTokens: "document-tokens",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Port: 9090,
		},
	}
}

// Validate rejects values the core cannot work with.
func (c *Config) Validate() error {
	if c.Search.ChampionListSize < 0 {
		return fmt.Errorf("search.championListSize must be >= 0, got %d", c.Search.ChampionListSize)
	}
	if c.PageRank.MaxIterations <= 0 {
		return fmt.Errorf("pagerank.maxIterations must be > 0, got %d", c.PageRank.MaxIterations)
	}
	switch c.Storage.AuthorityBackend {
	case "file", "postgres", "mysql":
	default:
		return fmt.Errorf("storage.authorityBackend %q is not one of file, postgres, mysql", c.Storage.AuthorityBackend)
	}
	return nil
}

// applyEnvOverrides reads SR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SR_INDEX_DATA_DIR"); v != "" {
		cfg.Index.DataDir = v
	}
	if v := os.Getenv("SR_INDEX_FILE_BACKED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Index.FileBacked = b
		}
	}
	if v := os.Getenv("SR_SEARCH_QUERY_TYPE"); v != "" {
		cfg.Search.QueryType = v
	}
	if v := os.Getenv("SR_SEARCH_RANKING_TYPE"); v != "" {
		cfg.Search.RankingType = v
	}
	if v := os.Getenv("SR_SEARCH_STRUCTURE_TYPE"); v != "" {
		cfg.Search.StructureType = v
	}
	if v := os.Getenv("SR_SEARCH_CHAMPION_LIST_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.ChampionListSize = n
		}
	}
	if v := os.Getenv("SR_PAGERANK_LINKS_FILE"); v != "" {
		cfg.PageRank.LinksFile = v
	}
	if v := os.Getenv("SR_PAGERANK_METHOD"); v != "" {
		cfg.PageRank.Method = v
	}
	if v := os.Getenv("SR_PAGERANK_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.PageRank.Seed = n
		}
	}
	if v := os.Getenv("SR_STORAGE_AUTHORITY_BACKEND"); v != "" {
		cfg.Storage.AuthorityBackend = v
	}
	if v := os.Getenv("SR_STORAGE_AUTHORITY_FILE"); v != "" {
		cfg.Storage.AuthorityFile = v
	}
	if v := os.Getenv("SR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("SR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("SR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("SR_MYSQL_ADDR"); v != "" {
		cfg.MySQL.Addr = v
	}
	if v := os.Getenv("SR_MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("SR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("SR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
