// Package config loads YAML job files for the strkernel command.
//
//	metric: subsequence
//	workers: 8
//	memory_limit: 2GiB
//	corpus:
//	  store: {kind: s3, bucket: corpora, prefix: spam/, region: eu-central-1}
//	  name: train.arff
//	output:
//	  store: {kind: local, root: ./out}
//	  compression: zstd
//	  publish: true
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/hupe1980/strkernel/gram"
	"github.com/hupe1980/strkernel/internal/cache"
	"github.com/hupe1980/strkernel/resource"
	"github.com/hupe1980/strkernel/similarity"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v2"
)

// Store kinds.
const (
	StoreLocal  = "local"
	StoreMemory = "memory"
	StoreMinIO  = "minio"
	StoreS3     = "s3"
)

// Config is a complete job description.
type Config struct {
	Metric       string `yaml:"metric"`
	Workers      int    `yaml:"workers"`
	MemoryLimit  Bytes  `yaml:"memory_limit"`
	IOLimit      Bytes  `yaml:"io_limit_per_sec"`
	CacheSlots   int    `yaml:"cache_slots"`
	MaxTableSize Bytes  `yaml:"max_table_size"`

	Log    LogConfig    `yaml:"log"`
	Corpus CorpusConfig `yaml:"corpus"`
	Output OutputConfig `yaml:"output"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig locates a blob store.
type StoreConfig struct {
	Kind      string `yaml:"kind"`
	Root      string `yaml:"root"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	// CommitTable enables DynamoDB commits of CURRENT for s3 stores.
	CommitTable string `yaml:"commit_table"`
}

// CorpusConfig locates the ARFF corpus.
type CorpusConfig struct {
	Store StoreConfig `yaml:"store"`
	Name  string      `yaml:"name"`
	// ClassIndex selects the class attribute; nil means the last attribute
	// and -1 means none.
	ClassIndex    *int     `yaml:"class_index"`
	Normalization string   `yaml:"normalization"`
	Subset        []uint32 `yaml:"subset"`
}

// OutputConfig says where the matrix goes.
type OutputConfig struct {
	Store       StoreConfig `yaml:"store"`
	Name        string      `yaml:"name"`
	Prefix      string      `yaml:"prefix"`
	Compression string      `yaml:"compression"`
	Publish     bool        `yaml:"publish"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	return &Config{
		Metric:     similarity.MetricSubsequence.String(),
		CacheSlots: cache.DefaultSlots,
		Log:        LogConfig{Level: "info", Format: "text"},
		Corpus: CorpusConfig{
			Store: StoreConfig{Kind: StoreLocal, Root: "."},
		},
		Output: OutputConfig{
			Store:       StoreConfig{Kind: StoreLocal, Root: "."},
			Prefix:      "gram/",
			Compression: gram.CompressionZSTD.String(),
			Publish:     true,
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := similarity.ParseMetric(c.Metric); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}
	if c.CacheSlots <= 0 {
		errs = append(errs, errors.New("cache_slots must be positive"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if c.Corpus.Name == "" {
		errs = append(errs, errors.New("corpus.name is required"))
	}
	if err := c.Corpus.Store.validate("corpus.store"); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := c.Corpus.NormalizationForm(); err != nil {
		errs = append(errs, err)
	}
	if ci := c.Corpus.ClassIndex; ci != nil && *ci < -1 {
		errs = append(errs, fmt.Errorf("corpus.class_index must be >= -1, got %d", *ci))
	}

	if err := c.Output.Store.validate("output.store"); err != nil {
		errs = append(errs, err)
	}
	if _, err := gram.ParseCompression(c.Output.Compression); err != nil {
		errs = append(errs, err)
	}
	if !c.Output.Publish && c.Output.Name == "" {
		errs = append(errs, errors.New("output.name is required when publish is false"))
	}
	return errors.Join(errs...)
}

func (s StoreConfig) validate(field string) error {
	switch s.Kind {
	case StoreLocal:
		if s.Root == "" {
			return fmt.Errorf("%s.root is required for local stores", field)
		}
	case StoreMemory:
	case StoreMinIO:
		if s.Endpoint == "" || s.Bucket == "" {
			return fmt.Errorf("%s: endpoint and bucket are required for minio stores", field)
		}
	case StoreS3:
		if s.Bucket == "" {
			return fmt.Errorf("%s.bucket is required for s3 stores", field)
		}
	default:
		return fmt.Errorf("%s.kind %q is not one of local, memory, minio, s3", field, s.Kind)
	}
	if s.CommitTable != "" && s.Kind != StoreS3 {
		return fmt.Errorf("%s.commit_table requires an s3 store", field)
	}
	return nil
}

// ParsedMetric returns the configured metric.
func (c *Config) ParsedMetric() similarity.Metric {
	m, _ := similarity.ParseMetric(c.Metric)
	return m
}

// ParsedCompression returns the configured output compression.
func (c *Config) ParsedCompression() gram.Compression {
	comp, _ := gram.ParseCompression(c.Output.Compression)
	return comp
}

// Resources returns the resource controller configuration. Zero workers
// means one per CPU.
func (c *Config) Resources() resource.Config {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return resource.Config{
		MemoryLimitBytes:   int64(c.MemoryLimit),
		MaxWorkers:         int64(workers),
		IOLimitBytesPerSec: int64(c.IOLimit),
	}
}

// NormalizationForm returns the Unicode form to apply, if any.
func (c CorpusConfig) NormalizationForm() (norm.Form, bool, error) {
	switch strings.ToUpper(c.Normalization) {
	case "":
		return 0, false, nil
	case "NFC":
		return norm.NFC, true, nil
	case "NFD":
		return norm.NFD, true, nil
	case "NFKC":
		return norm.NFKC, true, nil
	case "NFKD":
		return norm.NFKD, true, nil
	default:
		return 0, false, fmt.Errorf("corpus.normalization %q is not one of NFC, NFD, NFKC, NFKD", c.Normalization)
	}
}
