package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	repository "github.com/okian/robopath/internal/adapters/repository"
	"github.com/okian/robopath/internal/config"
	"github.com/okian/robopath/internal/fixtures"
	"github.com/okian/robopath/pkg/logger"
	"github.com/okian/robopath/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// seededDB writes a small fixture table and returns its path.
func seededDB(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.db")
	store, err := repository.Open(ctx, repository.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	cfg := fixtures.Config{Teams: 3, Matches: 2, AutoEvents: 5, TeleEvents: 12, Seed: 3}
	if _, err := fixtures.Seed(ctx, store, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return path
}

func TestConfigFromEnv(t *testing.T) {
	convey.Convey("Given ROBOPATH_ environment variables", t, func() {
		t.Setenv("ROBOPATH_ADDR", ":9090")
		t.Setenv("ROBOPATH_DB_DSN", "/tmp/other.db")
		t.Setenv("ROBOPATH_PREFETCH_WORKERS", "4")
		t.Setenv("ROBOPATH_CACHE_TTL_MS", "0")

		cfg, err := config.Load(context.Background())

		convey.Convey("Then they override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.DBDSN, convey.ShouldEqual, "/tmp/other.db")
			convey.So(cfg.PrefetchWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 0)
			convey.So(cfg.DBTable, convey.ShouldEqual, "match")
		})
	})
}

func TestMetricsFromConfig(t *testing.T) {
	convey.Convey("Given metrics settings for a venue", t, func() {
		cfg := config.New()
		cfg.MetricsNamespace = "venue"
		cfg.MetricsLabels = map[string]string{"event": "2024cmptx"}
		metrics.Configure(metricsOptions(cfg)...)
		defer metrics.Configure()

		metrics.RecordCacheHit()
		families, err := metrics.GetRegistry().Gather()

		convey.Convey("Then exported names and labels follow the config", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(families), convey.ShouldBeGreaterThan, 0)
			for _, f := range families {
				convey.So(f.GetName(), convey.ShouldStartWith, "venue_dashboard_")
			}
		})

		convey.Convey("Then the health endpoint serves the configured registry", func() {
			w := httptest.NewRecorder()
			newMux(context.Background(), nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `venue_dashboard_cache_hits_total{event="2024cmptx"}`)
		})
	})
}

func TestServerWiring(t *testing.T) {
	convey.Convey("Given a service over a seeded database", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg := config.New()
		cfg.DBDSN = seededDB(t)
		svc, err := openService(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, svc)

		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			return w
		}

		convey.Convey("When opening the dashboard", func() {
			w := get("/")

			convey.Convey("Then the page renders with the seeded teams", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `id="team-select"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "<circle")
			})
		})

		convey.Convey("When listing teams through the API", func() {
			w := get("/api/teams")
			var teams []map[string]interface{}
			convey.So(json.Unmarshal(w.Body.Bytes(), &teams), convey.ShouldBeNil)
			convey.So(len(teams), convey.ShouldEqual, 3)
		})

		convey.Convey("When fetching docs and assets", func() {
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/static/css/dashboard.css").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/static/js/dashboard.js").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When updating service metrics", func() {
			get("/")
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(families), convey.ShouldBeGreaterThan, 0)
		})
	})

	convey.Convey("Given an unreachable database", t, func() {
		cfg := config.New()
		cfg.DBDriver = "mysql"
		_, err := openService(context.Background(), cfg, logger.Get())
		convey.So(err, convey.ShouldNotBeNil)
	})
}
