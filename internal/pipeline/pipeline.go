// Package pipeline runs the fetch, boundary and join stages once and
// produces the immutable Dataset every command renders from.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/enrich"
	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/tiger"
)

// CountySource returns the ACS figures for every county of one state.
type CountySource interface {
	FetchCounties(ctx context.Context) ([]model.CountyRecord, error)
}

// BoundarySource returns the county boundaries of one state.
type BoundarySource interface {
	LoadCounties(ctx context.Context) ([]model.CountyGeometry, error)
}

// StageResult records how one stage went.
type StageResult struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Count    int           `json:"count"`
}

// Dataset is the joined result of a single run. It is never mutated after
// Run returns, so it can be shared across requests without locking.
type Dataset struct {
	RunID     uuid.UUID              `json:"run_id"`
	StateFIPS string                 `json:"state_fips"`
	StateName string                 `json:"state_name"`
	Counties  []model.EnrichedCounty `json:"-"`
	Report    enrich.Report          `json:"report"`
	Stages    []StageResult          `json:"stages"`
	FetchedAt time.Time              `json:"fetched_at"`
}

// Pipeline wires the two sources to the joiner.
type Pipeline struct {
	counties   CountySource
	boundaries BoundarySource
	stateFIPS  string
	now        func() time.Time
}

// New creates a Pipeline for the given state.
func New(counties CountySource, boundaries BoundarySource, stateFIPS string) *Pipeline {
	return &Pipeline{
		counties:   counties,
		boundaries: boundaries,
		stateFIPS:  stateFIPS,
		now:        time.Now,
	}
}

// Run executes the stages in order. A failure in either source aborts the
// run with no partial result.
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{
		RunID:     uuid.New(),
		StateFIPS: p.stateFIPS,
		StateName: p.stateFIPS,
	}
	if st, ok := tiger.StateByFIPS(p.stateFIPS); ok {
		ds.StateName = st.Name
	}

	log := zap.L().With(
		zap.String("component", "pipeline"),
		zap.String("run_id", ds.RunID.String()),
		zap.String("state", ds.StateName),
	)
	log.Info("pipeline: starting run")

	track := func(name string, count func() (int, error)) error {
		start := time.Now()
		n, err := count()
		dur := time.Since(start)
		if err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Duration("duration", dur),
				zap.Error(err),
			)
			return err
		}
		ds.Stages = append(ds.Stages, StageResult{Name: name, Duration: dur, Count: n})
		log.Info("pipeline: stage complete",
			zap.String("stage", name),
			zap.Int("count", n),
			zap.Duration("duration", dur),
		)
		return nil
	}

	var records []model.CountyRecord
	if err := track("fetch", func() (int, error) {
		var err error
		records, err = p.counties.FetchCounties(ctx)
		return len(records), err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch county statistics")
	}
	ds.FetchedAt = p.now().UTC()

	var geoms []model.CountyGeometry
	if err := track("boundaries", func() (int, error) {
		var err error
		geoms, err = p.boundaries.LoadCounties(ctx)
		return len(geoms), err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: load county boundaries")
	}

	_ = track("join", func() (int, error) {
		ds.Counties, ds.Report = enrich.Join(records, geoms)
		return len(ds.Counties), nil
	})

	if !ds.Report.Clean() {
		log.Warn("pipeline: counties excluded from join",
			zap.Strings("records_only", ds.Report.RecordsOnly),
			zap.Strings("geometry_only", ds.Report.GeometryOnly),
			zap.Any("invalid", ds.Report.Invalid),
			zap.Strings("duplicates", ds.Report.Duplicates),
		)
	}

	if len(ds.Counties) == 0 {
		return nil, eris.Errorf("pipeline: no counties joined for state %s (%d records, %d boundaries)",
			p.stateFIPS, len(records), len(geoms))
	}

	log.Info("pipeline: run complete", zap.Int("counties", len(ds.Counties)))
	return ds, nil
}

// County returns the county with the given FIPS.
func (d *Dataset) County(fips string) (model.EnrichedCounty, bool) {
	for _, c := range d.Counties {
		if c.FIPS == fips {
			return c, true
		}
	}
	return model.EnrichedCounty{}, false
}
