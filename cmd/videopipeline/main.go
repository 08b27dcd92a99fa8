package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/assets"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/config"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/jobs"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/logger"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/narration"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/pipeline"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/script"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/server"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/speech"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/system"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/textgen"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/video"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer zl.Sync()
	log := zl.Sugar()

	system.InitResourceLimits(log)

	for _, dir := range []string{cfg.VideosDir, cfg.AssetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalw("could not create directory", "dir", dir, "err", err)
		}
	}
	assets.EnsureMusic(context.Background(), cfg.BGMusic, log)

	codec := system.BestH264Encoder()
	log.Infow("starting", "port", cfg.Port, "encoder", codec, "model", cfg.ModelName)

	gen := textgen.NewGeminiClient(cfg.GeminiAPIKey, cfg.ModelName)
	writer := script.NewWriter(gen, log)
	planner := assets.NewPlanner(gen, log)
	fetcher := assets.NewFetcher(assets.NewUnsplashClient(cfg.UnsplashClientID),
		config.Width, config.Height, log)
	builder := narration.NewBuilder(speech.NewGoogleTTS(), cfg.MinClipSuccessRatio, log)
	enc := video.NewFFmpegEncoder(config.Width, config.Height, config.FPS, codec, log)
	enc.Bitrate = config.VideoBitrate
	enc.AudioRate = config.AudioBitrate
	enc.MusicVol = config.MusicVolume
	enc.MusicFade = config.MusicFade

	store := jobs.NewMemoryStore()
	pipe := pipeline.New(cfg, log, writer, planner, fetcher, builder, enc, store)

	srv := server.New(pipe, writer, store, cfg.VideosDir, log)
	if err := srv.Router().Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalw("server stopped", "err", err)
	}
}
