package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/devbracket/internal/app"
	"github.com/okian/devbracket/internal/config"
	"github.com/okian/devbracket/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const dataset = `user name,exercise name,dominance,exercise createdAt,power - high,acceleration - high,sex
ana,Lateral Bound,Dominant,2024-01-10 09:00:00,500,4.1,female
ana,Lateral Bound,Dominant,2024-03-10 09:00:00,560,4.4,female
`

func TestMainFunction(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		t.Setenv("DEVBRACKET_CONFIG", "")
		t.Setenv("DEVBRACKET_ENV_FILE", "")
		t.Setenv("DEVBRACKET_ADDR", ":8080")
		t.Setenv("DEVBRACKET_WORKER_COUNT", "4")
		t.Setenv("DEVBRACKET_MAX_TESTS", "5")

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the service picks up the pipeline settings", func() {
			svc := app.New(app.WithConfig(cfg))
			stats := svc.GetStats()
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(stats["workerCount"], convey.ShouldEqual, 4)
			convey.So(stats["maxTests"], convey.ShouldEqual, 5)
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the assembled mux", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := app.New(app.WithConfig(cfg), app.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, svc, cfg)

		serve := func(method, target, body string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
			return w
		}

		convey.Convey("Then every route is reachable", func() {
			convey.So(serve(http.MethodGet, "/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/stats", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/reports", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodPost, "/reports?format=csv", dataset).Code, convey.ShouldEqual, http.StatusCreated)
		})
	})
}

func TestRunShutsDownOnCancel(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then run returns without error", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("timeout", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		svc := app.New()

		convey.So(func() {
			startSystemMetricsUpdater(ctx, 5*time.Millisecond)
			startServiceMetricsUpdater(ctx, svc, 5*time.Millisecond)
			updateSystemMetrics()
			updateServiceMetrics(svc)
		}, convey.ShouldNotPanic)
	})
}
