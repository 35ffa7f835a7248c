package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"docclass/internal/vectorizer"
)

type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Model      ModelConfig      `yaml:"model"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Layout     LayoutConfig     `yaml:"layout"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
}

type DatasetConfig struct {
	TrainDir      string `yaml:"train_dir"`
	PredictDir    string `yaml:"predict_dir"`
	ExcludePrefix string `yaml:"exclude_prefix"`
}

type ModelConfig struct {
	Path string `yaml:"path"`
}

type VectorizerConfig struct {
	Lowercase    *bool   `yaml:"lowercase"`
	TokenPattern string  `yaml:"token_pattern"`
	MinDF        int     `yaml:"min_df"`
	MaxDF        float64 `yaml:"max_df"`
	SublinearTF  bool    `yaml:"sublinear_tf"`
}

// ClassifierConfig drives the regularization sweep. TieBreak is either
// "last" (reverse-scan argmin) or "first".
type ClassifierConfig struct {
	Candidates []float64 `yaml:"candidates"`
	TieBreak   string    `yaml:"tie_break"`
	MaxIter    int       `yaml:"max_iter"`
	Tolerance  float64   `yaml:"tolerance"`
	Seed       uint64    `yaml:"seed"`
}

type AggregatorConfig struct {
	TopN int `yaml:"top_n"`
}

type LayoutConfig struct {
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	BlockGap     float64 `yaml:"block_gap"`
}

type ArchiveConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	InMemory      bool   `yaml:"in_memory"`
	Compress      bool   `yaml:"compress"`
	EncryptionKey string `yaml:"encryption_key"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console *bool  `yaml:"console"`
}

const (
	TieBreakLast  = "last"
	TieBreakFirst = "first"

	DriverPgdriver = "pgdriver"
	DriverPostgres = "postgres"

	defaultExcludePrefix = "-"
	defaultModelPath     = "./model/classifier.mp"
	defaultMaxIter       = 1000
	defaultTolerance     = 0.1
	defaultSeed          = 1
	defaultTopN          = 6
	defaultChunkSize     = 1000 // characters
	defaultBlockGap      = 1.8  // multiples of the median row gap
	defaultArchivePath   = "./chromemdb"
	defaultCollection    = "classified_documents"
	defaultLogLevel      = "debug"
)

// DefaultCandidates is the regularization grid {0.1, 0.2, ..., 1.0}.
func DefaultCandidates() []float64 {
	c := make([]float64, 10)
	for i := range c {
		c[i] = float64(i+1) / 10
	}
	return c
}

// Default returns a config with every field populated.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dataset.ExcludePrefix == "" {
		c.Dataset.ExcludePrefix = defaultExcludePrefix
	}
	if c.Model.Path == "" {
		c.Model.Path = defaultModelPath
	}
	if c.Vectorizer.Lowercase == nil {
		lower := true
		c.Vectorizer.Lowercase = &lower
	}
	if c.Vectorizer.TokenPattern == "" {
		c.Vectorizer.TokenPattern = vectorizer.DefaultTokenPattern
	}
	if c.Vectorizer.MinDF <= 0 {
		c.Vectorizer.MinDF = 1
	}
	if c.Vectorizer.MaxDF <= 0 || c.Vectorizer.MaxDF > 1 {
		c.Vectorizer.MaxDF = 1
	}
	if len(c.Classifier.Candidates) == 0 {
		c.Classifier.Candidates = DefaultCandidates()
	}
	if c.Classifier.TieBreak == "" {
		c.Classifier.TieBreak = TieBreakLast
	}
	if c.Classifier.MaxIter <= 0 {
		c.Classifier.MaxIter = defaultMaxIter
	}
	if c.Classifier.Tolerance <= 0 {
		c.Classifier.Tolerance = defaultTolerance
	}
	if c.Classifier.Seed == 0 {
		c.Classifier.Seed = defaultSeed
	}
	if c.Aggregator.TopN <= 0 {
		c.Aggregator.TopN = defaultTopN
	}
	if c.Layout.ChunkSize <= 0 {
		c.Layout.ChunkSize = defaultChunkSize
	}
	if c.Layout.ChunkOverlap < 0 || c.Layout.ChunkOverlap >= c.Layout.ChunkSize {
		c.Layout.ChunkOverlap = 0
	}
	if c.Layout.BlockGap <= 0 {
		c.Layout.BlockGap = defaultBlockGap
	}
	if c.Archive.Path == "" {
		c.Archive.Path = defaultArchivePath
	}
	if c.Archive.Collection == "" {
		c.Archive.Collection = defaultCollection
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPgdriver
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Console == nil {
		console := true
		c.Log.Console = &console
	}
}

func (c *Config) validate() error {
	if _, err := regexp.Compile(c.Vectorizer.TokenPattern); err != nil {
		return fmt.Errorf("invalid vectorizer.token_pattern %q: %w", c.Vectorizer.TokenPattern, err)
	}
	switch c.Classifier.TieBreak {
	case TieBreakLast, TieBreakFirst:
	default:
		return fmt.Errorf("invalid classifier.tie_break %q: expected %q or %q", c.Classifier.TieBreak, TieBreakLast, TieBreakFirst)
	}
	for _, cand := range c.Classifier.Candidates {
		if cand <= 0 {
			return fmt.Errorf("invalid classifier.candidates: %v must be positive", cand)
		}
	}
	switch c.Database.Driver {
	case DriverPgdriver, DriverPostgres:
	default:
		return fmt.Errorf("invalid database.driver %q", c.Database.Driver)
	}
	if c.Database.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when the database is enabled")
	}
	return nil
}
