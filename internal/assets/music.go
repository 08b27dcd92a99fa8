package assets

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const defaultMusicURL = "https://cdn.pixabay.com/audio/2022/05/27/audio_1808fbf07a.mp3"

// EnsureMusic makes sure a background music bed exists at path,
// downloading a default royalty-free track on first start. Failure is
// non-fatal; videos then render without a music bed.
func EnsureMusic(ctx context.Context, path string, log *zap.SugaredLogger) {
	if _, err := os.Stat(path); err == nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warnw("could not create music directory", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, defaultMusicURL, nil)
	if err != nil {
		log.Warnw("music download skipped", "err", err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Warnw("music download failed", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warnw("music download failed", "status", resp.StatusCode)
		return
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		log.Warnw("music download failed", "err", err)
		return
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		log.Warnw("music download failed", "err", err)
		return
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		log.Warnw("music download failed", "err", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		log.Warnw("music download failed", "err", err)
		return
	}
	log.Infow("background music downloaded", "path", path)
}
