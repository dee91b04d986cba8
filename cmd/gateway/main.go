package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tunebridge/suno-gateway/pkg/config"
	"github.com/tunebridge/suno-gateway/pkg/logging"
	"github.com/tunebridge/suno-gateway/pkg/metrics"
	"github.com/tunebridge/suno-gateway/pkg/openaicompat"
	"github.com/tunebridge/suno-gateway/pkg/suno"
	"github.com/tunebridge/suno-gateway/pkg/telemetry"
)

type server struct {
	cfg         config.Config
	log         *zap.Logger
	metrics     *metrics.Metrics
	client      *suno.Client
	coordinator *suno.Coordinator
	shim        *openaicompat.Shim
}

func newServer(cfg config.Config, log *zap.Logger, m *metrics.Metrics) *server {
	client := suno.NewClient(cfg.UpstreamBaseURL, cfg.RequestTimeout(), log, m)
	s := &server{
		cfg:         cfg,
		log:         log,
		metrics:     m,
		client:      client,
		coordinator: suno.NewCoordinator(client, log, m, cfg.PollInterval(), cfg.WaitTimeout()),
	}
	s.shim = openaicompat.NewShim(s)
	return s
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer := telemetry.InitTracer(ctx, "suno-gateway", log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	m := metrics.New()
	srv := newServer(cfg, log, m)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("gateway shutdown error", zap.Error(err))
		}
	}()

	log.Info("gateway listening", zap.String("addr", cfg.ListenAddr))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway listen failed", zap.Error(err))
	}

	<-ctx.Done()
	log.Info("gateway stopped")
}

func (s *server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	// Sync waits can legitimately run for the whole wait budget.
	router.Use(timeoutMiddleware(s.cfg.WaitTimeout() + s.cfg.RequestTimeout()))
	router.Use(s.measure)

	router.Get("/healthz", healthzHandler)
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/custom_generate", s.handleCustomGenerate)
		r.Post("/extend_audio", s.transformHandler(suno.OpExtend))
		r.Post("/cover_audio", s.transformHandler(suno.OpCover))
		r.Post("/upload_cover", s.transformHandler(suno.OpUploadCover))
		r.Post("/add_vocals", s.transformHandler(suno.OpAddVocals))
		r.Post("/add_instrumental", s.transformHandler(suno.OpAddInstrumental))
		r.Post("/generate_lyrics", s.handleGenerateLyrics)
		r.Post("/generate_stems", s.handleGenerateStems)
		r.Get("/stems_info", s.handleStemsInfo)
		r.Post("/convert_wav", s.handleConvertWav)
		r.Get("/wav_info", s.handleWavInfo)
		r.Get("/get", s.handleGet)
		r.Get("/clip", s.handleClip)
		r.Get("/get_aligned_lyrics", s.handleAlignedLyrics)
		r.Get("/get_limit", s.handleGetLimit)
	})

	router.Post("/v1/chat/completions", s.handleChatCompletions)

	return router
}

func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// measure records request counters and latency per route pattern.
func (s *server) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RequestTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
