// Command strkernel computes and publishes a string-kernel Gram matrix
// described by a YAML job file.
//
//	strkernel -config job.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strkernel"
	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/blobstore/minio"
	"github.com/hupe1980/strkernel/blobstore/s3"
	"github.com/hupe1980/strkernel/config"
	"github.com/hupe1980/strkernel/corpus/arff"
	"github.com/hupe1980/strkernel/gram"
	"github.com/hupe1980/strkernel/resource"
)

func main() {
	configPath := flag.String("config", "strkernel.yaml", "path to the YAML job file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	in, err := openStore(ctx, cfg.Corpus.Store)
	if err != nil {
		return fmt.Errorf("corpus store: %w", err)
	}
	dst, err := openStore(ctx, cfg.Output.Store)
	if err != nil {
		return fmt.Errorf("output store: %w", err)
	}

	rc := resource.NewController(cfg.Resources())
	metrics := &strkernel.BasicMetricsCollector{}

	k, err := strkernel.Open(ctx, in, cfg.Corpus.Name, cfg.ParsedMetric(),
		strkernel.WithLogger(logger),
		strkernel.WithMetricsCollector(metrics),
		strkernel.WithResourceController(rc),
		strkernel.WithCacheSlots(cfg.CacheSlots),
		strkernel.WithMaxTableBytes(int64(cfg.MaxTableSize)),
		strkernel.WithCorpusOptions(corpusOptions(cfg.Corpus)...),
	)
	if err != nil {
		return err
	}
	// The job evaluates only through Gram workers; return the bound
	// engine's cache to the memory budget before they start.
	k.Reset()

	var gopts []gram.Option
	if cfg.Workers > 0 {
		gopts = append(gopts, gram.WithWorkers(cfg.Workers))
	}
	if len(cfg.Corpus.Subset) > 0 {
		gopts = append(gopts, gram.WithSubset(roaring.BitmapOf(cfg.Corpus.Subset...)))
	}

	start := time.Now()
	m, err := k.Gram(ctx, gopts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	saveOpts := []gram.Option{
		gram.WithCompression(cfg.ParsedCompression()),
		gram.WithPrefix(cfg.Output.Prefix),
		gram.WithResourceController(rc),
	}

	var (
		target string
		info   gram.Info
	)
	if cfg.Output.Publish {
		mf, err := gram.Publish(ctx, dst, m, saveOpts...)
		if err != nil {
			return err
		}
		target = mf.Matrix
		info = gram.Info{Rows: mf.Rows, Checksum: mf.Checksum, Size: mf.Bytes}
	} else {
		target = cfg.Output.Name
		info, err = gram.Save(ctx, dst, target, m, saveOpts...)
		if err != nil {
			return err
		}
	}

	stats := metrics.GetStats()
	fmt.Fprintf(out, "corpus:      %s\n", k.CorpusName())
	fmt.Fprintf(out, "metric:      %s\n", m.Metric)
	fmt.Fprintf(out, "rows:        %d\n", m.Len())
	fmt.Fprintf(out, "evaluations: %d (cache hits %d)\n", stats.EvaluateCount, stats.CacheHits)
	fmt.Fprintf(out, "elapsed:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "peak memory: %d bytes\n", rc.PeakMemoryUsage())
	fmt.Fprintf(out, "matrix:      %s (%d bytes, crc32c %08x)\n", target, info.Size, info.Checksum)
	return nil
}

func newLogger(cfg *config.Config) (*strkernel.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if cfg.Log.Format == "json" {
		return strkernel.NewJSONLogger(level), nil
	}
	return strkernel.NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func corpusOptions(c config.CorpusConfig) []arff.Option {
	classIndex := arff.ClassLast
	if c.ClassIndex != nil {
		classIndex = *c.ClassIndex
	}
	opts := []arff.Option{arff.WithClassIndex(classIndex)}
	if form, ok, _ := c.NormalizationForm(); ok {
		opts = append(opts, arff.WithNormalization(form))
	}
	return opts
}

func openStore(ctx context.Context, c config.StoreConfig) (blobstore.BlobStore, error) {
	switch c.Kind {
	case config.StoreLocal:
		if err := os.MkdirAll(c.Root, 0o755); err != nil {
			return nil, err
		}
		return blobstore.NewLocalStore(c.Root), nil
	case config.StoreMemory:
		return blobstore.NewMemoryStore(), nil
	case config.StoreMinIO:
		opts := []minio.Option{
			minio.WithPrefix(c.Prefix),
			minio.WithSecure(c.Secure),
		}
		if c.Region != "" {
			opts = append(opts, minio.WithRegion(c.Region))
		}
		if c.AccessKey != "" {
			opts = append(opts, minio.WithStaticCredentials(c.AccessKey, c.SecretKey))
		}
		store, err := minio.New(c.Endpoint, c.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreS3:
		opts := []s3.Option{s3.WithPrefix(c.Prefix)}
		if c.Region != "" {
			opts = append(opts, s3.WithRegion(c.Region))
		}
		if c.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.Endpoint))
		}
		if c.CommitTable != "" {
			store, err := s3.NewWithDynamoDB(ctx, c.Bucket, c.CommitTable, opts...)
			if err != nil {
				return nil, err
			}
			return store, nil
		}
		store, err := s3.New(ctx, c.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", c.Kind)
	}
}
