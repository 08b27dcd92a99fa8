// Package config loads runtime configuration from the environment and
// carries the fixed rendering parameters of the pipeline.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Render parameters shared by every job.
const (
	Width  = 1920
	Height = 1080
	FPS    = 30

	// Seconds of visual crossfade between adjacent segments and the
	// audio/visual overlap folded into each segment's duration.
	FadeDuration   = 1.0
	ChangeDuration = 0.5

	EffectIntensity = 0.12

	MusicVolume   = 0.08
	MusicFade     = 2.0
	VideoBitrate  = "5000k"
	AudioBitrate  = "192k"
	MinImageCount = 5
	PadImageCount = 7
)

// Config is the environment-driven part of the service configuration.
type Config struct {
	Port       int
	AppBaseURL string

	GeminiAPIKey     string
	ModelName        string
	UnsplashClientID string

	VideosDir string
	AssetsDir string
	BGMusic   string

	LogLevel  string
	LogFormat string

	// MinClipSuccessRatio is the minimum fraction of narration clips that
	// must synthesize for a job to proceed. Zero means any single clip is
	// enough.
	MinClipSuccessRatio float64

	EncodeWorkers int

	languages map[string]string
}

// Load reads configuration from environment variables, applying defaults
// and an optional languages.yaml override next to the assets directory.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_BASE_URL", "http://localhost:8000")
	v.SetDefault("MODEL_NAME", "gemini-2.0-flash")
	v.SetDefault("VIDEOS_DIR", "generated_videos")
	v.SetDefault("ASSETS_DIR", "assets")
	v.SetDefault("BG_MUSIC", "assets/bg_music.mp3")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MIN_CLIP_SUCCESS_RATIO", 0.0)
	v.SetDefault("ENCODE_WORKERS", 2)

	cfg := &Config{
		Port:                v.GetInt("PORT"),
		AppBaseURL:          strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		ModelName:           v.GetString("MODEL_NAME"),
		UnsplashClientID:    v.GetString("UNSPLASH_CLIENT_ID"),
		VideosDir:           v.GetString("VIDEOS_DIR"),
		AssetsDir:           v.GetString("ASSETS_DIR"),
		BGMusic:             v.GetString("BG_MUSIC"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		MinClipSuccessRatio: v.GetFloat64("MIN_CLIP_SUCCESS_RATIO"),
		EncodeWorkers:       v.GetInt("ENCODE_WORKERS"),
		languages:           defaultLanguages(),
	}

	if cfg.MinClipSuccessRatio < 0 || cfg.MinClipSuccessRatio > 1 {
		return nil, fmt.Errorf("MIN_CLIP_SUCCESS_RATIO out of range: %v", cfg.MinClipSuccessRatio)
	}
	if cfg.EncodeWorkers < 1 {
		cfg.EncodeWorkers = 1
	}

	if path := v.GetString("LANGUAGES_FILE"); path != "" {
		if err := cfg.loadLanguages(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) loadLanguages(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read languages file: %w", err)
	}
	extra := map[string]string{}
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("parse languages file %s: %w", path, err)
	}
	for name, code := range extra {
		c.languages[strings.ToLower(name)] = code
	}
	return nil
}

// LanguageCode maps a human-readable language name to a TTS language
// code. Unknown names fall back to English.
func (c *Config) LanguageCode(name string) string {
	if code, ok := c.languages[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return "en"
}

func defaultLanguages() map[string]string {
	return map[string]string{
		"english":    "en",
		"hindi":      "hi",
		"spanish":    "es",
		"french":     "fr",
		"german":     "de",
		"italian":    "it",
		"portuguese": "pt",
		"russian":    "ru",
		"japanese":   "ja",
		"korean":     "ko",
		"chinese":    "zh-CN",
		"arabic":     "ar",
		"bengali":    "bn",
		"tamil":      "ta",
		"telugu":     "te",
		"marathi":    "mr",
		"gujarati":   "gu",
		"kannada":    "kn",
		"malayalam":  "ml",
		"punjabi":    "pa",
		"urdu":       "ur",
	}
}
