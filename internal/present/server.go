package present

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/export"
	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
)

// Server serves one Dataset. The Dataset is read-only, so handlers share it
// without locking.
type Server struct {
	ds       *pipeline.Dataset
	opts     MapOptions
	origins  []string
	features []byte
	center   [2]float64
	log      *zap.Logger
}

// NewServer prepares a server for ds. It fails when there is nothing to map.
func NewServer(ds *pipeline.Dataset, opts MapOptions, allowedOrigins []string) (*Server, error) {
	if ds == nil || len(ds.Counties) == 0 {
		return nil, eris.New("present: no dataset to serve")
	}
	if opts.Bins == 0 {
		opts.Bins = DefaultBins
	}
	if opts.Palette == "" {
		opts.Palette = "YlGnBu"
	}
	if _, err := Palette(opts.Palette, opts.Bins); err != nil {
		return nil, err
	}

	fc, err := FeatureCollection(ds)
	if err != nil {
		return nil, err
	}
	features, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "present: encode features")
	}

	return &Server{
		ds:       ds,
		opts:     opts,
		origins:  allowedOrigins,
		features: features,
		center:   Center(ds),
		log:      zap.L().With(zap.String("component", "present.server")),
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleMap)
	r.Get("/export.csv", s.handleCSV)
	r.Get("/export.xlsx", s.handleXLSX)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/counties.geojson", s.handleGeoJSON)
		r.Get("/counties/{fips}", s.handleCounty)
		r.Get("/choropleth", s.handleChoropleth)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", addr), zap.Int("counties", len(s.ds.Counties)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- eris.Wrap(err, "present: server listen")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "present: server shutdown")
	}
	return <-errCh
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"run_id":     s.ds.RunID.String(),
		"state":      s.ds.StateName,
		"counties":   len(s.ds.Counties),
		"fetched_at": s.ds.FetchedAt,
	})
}

func (s *Server) metric(w http.ResponseWriter, r *http.Request) (model.Metric, bool) {
	m, err := model.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return m, true
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	m, ok := s.metric(w, r)
	if !ok {
		return
	}
	layer, err := Choropleth(s.ds, m, s.opts.Palette, s.opts.Bins)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, NewPageData(s.ds.StateName, m, layer, s.center, s.features, s.opts)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(s.features)
}

func (s *Server) handleCounty(w http.ResponseWriter, r *http.Request) {
	fips := chi.URLParam(r, "fips")
	c, ok := s.ds.County(fips)
	if !ok {
		writeError(w, http.StatusNotFound, "county "+fips+" not found")
		return
	}
	f, err := Feature(c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := json.Marshal(f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(body)
}

func (s *Server) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	m, ok := s.metric(w, r)
	if !ok {
		return
	}
	layer, err := Choropleth(s.ds, m, s.opts.Palette, s.opts.Bins)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layer)
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, export.Rows(s.ds)); err != nil {
		s.fail(w, r, err)
		return
	}
	attach(w, "text/csv; charset=utf-8", export.Filename(s.ds.StateName, "csv"))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.Rows(s.ds)); err != nil {
		s.fail(w, r, err)
		return
	}
	attach(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.Filename(s.ds.StateName, "xlsx"))
	_, _ = buf.WriteTo(w)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func attach(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
