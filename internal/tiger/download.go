package tiger

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/fetcher"
	"github.com/sells-group/county-roi/internal/model"
)

// LoaderOptions configures the boundary loader.
type LoaderOptions struct {
	URL           string // archive URL, see BoundaryURL
	StateFIPS     string // keep only this state's counties
	TempDir       string // parent of the per-run scratch dir; "" = os.TempDir()
	MaxEntryBytes int64  // per-member extraction cap; 0 = fetcher.DefaultMaxEntryBytes
}

// Loader downloads the county boundary archive and parses one state's counties.
type Loader struct {
	f    fetcher.Fetcher
	opts LoaderOptions
}

// NewLoader creates a boundary loader.
func NewLoader(f fetcher.Fetcher, opts LoaderOptions) *Loader {
	return &Loader{f: f, opts: opts}
}

// LoadCounties downloads and extracts the archive into a scratch directory,
// parses the shapefile, and removes the directory before returning.
// Nothing is kept between runs.
func (l *Loader) LoadCounties(ctx context.Context) ([]model.CountyGeometry, error) {
	log := zap.L().With(
		zap.String("component", "tiger.loader"),
		zap.String("url", l.opts.URL),
		zap.String("state_fips", l.opts.StateFIPS),
	)

	workDir, err := os.MkdirTemp(l.opts.TempDir, "county-roi-boundary-")
	if err != nil {
		return nil, eris.Wrap(err, "tiger: create scratch dir")
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Warn("tiger: failed to remove scratch dir", zap.String("dir", workDir), zap.Error(rmErr))
		}
	}()

	zipPath := filepath.Join(workDir, path.Base(l.opts.URL))
	if filepath.Ext(zipPath) != ".zip" {
		zipPath = filepath.Join(workDir, "boundary.zip")
	}

	log.Info("downloading county boundary archive")
	n, err := l.f.DownloadToFile(ctx, l.opts.URL, zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "tiger: download boundary archive")
	}
	log.Debug("boundary archive downloaded", zap.Int64("bytes", n))

	extractDir := filepath.Join(workDir, "shp")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "tiger: create extract dir")
	}
	files, err := fetcher.ExtractZIP(zipPath, extractDir, l.opts.MaxEntryBytes)
	if err != nil {
		return nil, eris.Wrap(err, "tiger: extract boundary archive")
	}

	shpPath, ok := fetcher.FindByExt(files, ".shp")
	if !ok {
		return nil, eris.Errorf("tiger: no .shp file in %s", path.Base(l.opts.URL))
	}

	counties, err := ParseCounties(shpPath, l.opts.StateFIPS)
	if err != nil {
		return nil, err
	}

	log.Info("county boundaries loaded", zap.Int("counties", len(counties)))
	return counties, nil
}
