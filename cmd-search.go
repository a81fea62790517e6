package main

import (
	"fmt"
	"os"

	"github.com/allegro/bigcache/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/regionxdb/xdb/ipkey"
	"github.com/regionxdb/xdb/metrics"
	"github.com/regionxdb/xdb/region"
	"github.com/regionxdb/xdb/regioncache"
	"github.com/regionxdb/xdb/xdbheader"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func newCmd_Search() *cli.Command {
	var dbPath string
	var version int
	var useCache bool
	var metricsAddr string
	var useMmap bool
	cfg := DefaultConfig()

	return &cli.Command{
		Name:        "search",
		Usage:       "Look up the region for one or more IP addresses against an XDB file.",
		Description: "Look up the region for one or more IP addresses against an XDB file.",
		ArgsUsage:   "<ip-address> [ip-address...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the XDB file",
				Required:    true,
				Destination: &dbPath,
			},
			&cli.IntFlag{
				Name:        "version",
				Usage:       "IP version the engine expects (4 or 6)",
				Value:       4,
				Destination: &version,
			},
			&cli.BoolFlag{
				Name:        "cache",
				Usage:       "wrap the engine in a read-through payload cache",
				Destination: &useCache,
			},
			&cli.StringFlag{
				Name:        "metrics-addr",
				Usage:       "if set, serve Prometheus metrics on this address (e.g. :9090)",
				Destination: &metricsAddr,
			},
			&cli.BoolFlag{
				Name:        "mmap",
				Usage:       "use an mmap-backed file handle instead of seek+read for any file-touching store strategy",
				Destination: &useMmap,
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("search: at least one IP address is required")
			}
			v, err := parseVersionFlag(version)
			if err != nil {
				return err
			}

			searcher, err := openSearcherForFile(v, dbPath, cfg, useMmap)
			if err != nil {
				return err
			}
			defer searcher.Close()

			if metricsAddr != "" {
				serveMetrics(metricsAddr)
				searcher.WithMetrics(metrics.NewSet(prometheus.DefaultRegisterer, dbPath))
			}

			var lookup interface {
				SearchText(string) ([]byte, error)
			} = searcher

			var cache *regioncache.Cache
			if useCache {
				conf := bigcache.DefaultConfig(cfg.CacheTTL)
				conf.Shards = cfg.CacheShards
				cache, err = regioncache.New(c.Context, searcher, conf)
				if err != nil {
					return fmt.Errorf("search: failed to build cache: %w", err)
				}
				lookup = cache
			}

			for _, text := range c.Args().Slice() {
				payload, err := lookup.SearchText(text)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: error: %v\n", text, err)
					continue
				}
				if len(payload) == 0 {
					fmt.Printf("%s: <no match>\n", text)
					continue
				}
				fmt.Printf("%s: %s\n", text, payload)
			}
			return nil
		},
	}
}

func parseVersionFlag(v int) (ipkey.Version, error) {
	switch v {
	case 4:
		return ipkey.V4, nil
	case 6:
		return ipkey.V6, nil
	default:
		return 0, fmt.Errorf("search: -version must be 4 or 6, got %d", v)
	}
}

// openSearcherForFile picks the store strategy by file size: small files are
// read fully into memory, medium ones preload only the vector index, and
// large ones stay file-only. This is a CLI convenience policy, not part of
// the core engine's contract. useMmap is forwarded to whichever strategy
// still touches the file (it has no effect on the full-buffer strategy,
// which never reopens the file after the initial read).
func openSearcherForFile(v ipkey.Version, path string, cfg Config, useMmap bool) (*region.Searcher, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	switch {
	case fi.Size() <= cfg.FullBufferThreshold:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		klog.V(2).Infof("search: using full-buffer store for %s (%d bytes)", path, fi.Size())
		return region.OpenWithBuffer(v, content)
	case fi.Size() <= cfg.PreloadVectorIndexThreshold:
		klog.V(2).Infof("search: using file+vector-index store for %s (mmap=%v)", path, useMmap)
		return openWithPreloadedVectorIndex(v, path, useMmap)
	default:
		klog.V(2).Infof("search: using file-only store for %s (%d bytes, mmap=%v)", path, fi.Size(), useMmap)
		return region.Open(v, path, useMmap)
	}
}

// openWithPreloadedVectorIndex reads the fixed-size vector-index region
// directly and hands it to region.OpenWithVectorIndex.
func openWithPreloadedVectorIndex(v ipkey.Version, path string, useMmap bool) (*region.Searcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer f.Close()

	vi := make([]byte, xdbheader.VectorIndexSize)
	if _, err := f.ReadAt(vi, xdbheader.HeaderSize); err != nil {
		return nil, fmt.Errorf("search: failed to preload vector index: %w", err)
	}
	return region.OpenWithVectorIndex(v, path, useMmap, vi)
}

