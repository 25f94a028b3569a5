package main

import (
	"context"
	"time"

	"github.com/sells-group/county-roi/internal/acs"
	"github.com/sells-group/county-roi/internal/fetcher"
	"github.com/sells-group/county-roi/internal/pipeline"
	"github.com/sells-group/county-roi/internal/present"
	"github.com/sells-group/county-roi/internal/tiger"
)

// initPipeline validates the config for mode and builds the pipeline with
// one HTTP fetcher for the API and a longer-timeout one for the archive.
func initPipeline(mode string) (*pipeline.Pipeline, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	limiters := fetcher.DefaultRateLimiters(cfg.Fetch.RatePerSec)
	apiFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		RateLimiters: limiters,
	})
	archiveFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.ArchiveTimeoutSecs) * time.Second,
		RateLimiters: limiters,
	})

	counties := acs.NewClient(apiFetcher, acs.Options{
		BaseURL:   cfg.Census.BaseURL,
		Year:      cfg.Census.Year,
		Dataset:   cfg.Census.Dataset,
		StateFIPS: cfg.Census.StateFIPS,
		APIKey:    cfg.Census.APIKey,
	})
	boundaries := tiger.NewLoader(archiveFetcher, tiger.LoaderOptions{
		URL:           tiger.BoundaryURL(cfg.Boundary.BaseURL, cfg.Boundary.Year, cfg.Boundary.Resolution),
		StateFIPS:     cfg.Census.StateFIPS,
		TempDir:       cfg.Boundary.TempDir,
		MaxEntryBytes: int64(cfg.Boundary.MaxEntryMB) << 20,
	})

	return pipeline.New(counties, boundaries, cfg.Census.StateFIPS), nil
}

// runPipeline builds and runs the pipeline once.
func runPipeline(ctx context.Context, mode string) (*pipeline.Dataset, error) {
	p, err := initPipeline(mode)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

func mapOptions() present.MapOptions {
	return present.MapOptions{
		Zoom:        cfg.Map.Zoom,
		TileURL:     cfg.Map.TileURL,
		Attribution: cfg.Map.Attribution,
		Palette:     cfg.Map.Palette,
		Bins:        cfg.Map.Bins,
		FillOpacity: cfg.Map.FillOpacity,
		LineOpacity: cfg.Map.LineOpacity,
	}
}
