package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accent-detector/internal/accent"
	"accent-detector/internal/media"
	"accent-detector/internal/pipeline"
	"accent-detector/internal/platform/config"
	"accent-detector/internal/platform/logger"
	"accent-detector/internal/platform/metrics"
	"accent-detector/internal/transcribe"
	"accent-detector/internal/web"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	workDir := config.GetEnv("WORK_DIR", os.TempDir())
	whisperURL := config.GetEnv("WHISPER_URL", "http://localhost:9000")
	whisperModel := config.GetEnv("WHISPER_MODEL", transcribe.DefaultModel)
	warmupSec := config.GetEnvInt("WHISPER_WARMUP_SEC", 30)

	log := logger.New(logLevel, logFormat)

	fetcher := media.NewYTDLPFetcher(config.GetEnv("YTDLP_BIN", "yt-dlp"))
	extractor := media.NewFFmpegExtractor(config.GetEnv("FFMPEG_BIN", "ffmpeg"), config.GetEnv("FFPROBE_BIN", "ffprobe"))
	backend := transcribe.NewWhisperBackend(whisperURL, whisperModel)

	met := metrics.New()
	runner := pipeline.NewRunner(fetcher, extractor, backend, accent.DefaultLexicon(), workDir, log, met)
	h := web.NewHandler(runner, log)

	// Warm up the transcription service. Not fatal if it is still down:
	// the first request will surface the error.
	warmupCtx, cancelWarmup := context.WithTimeout(context.Background(), time.Duration(warmupSec)*time.Second)
	if err := backend.WaitReady(warmupCtx); err != nil {
		log.Warn("transcription service not ready", "error", err)
	}
	cancelWarmup()

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", met.Handler().ServeHTTP)
	r.Get("/healthz", h.Healthz)
	r.Get("/", h.Index)
	r.Post("/analyze", h.Analyze)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"work_dir", workDir,
		"whisper_url", whisperURL,
		"whisper_model", whisperModel,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
