package narration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/script"
)

type fakeTTS struct {
	calls    atomic.Int32
	failText string
}

func (f *fakeTTS) Synthesize(ctx context.Context, text, languageCode, dir string) (string, error) {
	f.calls.Add(1)
	if f.failText != "" && strings.Contains(text, f.failText) {
		return "", errors.New("synth failed")
	}
	path := filepath.Join(dir, fmt.Sprintf("clip_%d.mp3", f.calls.Load()))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newTestBuilder(tts *fakeTTS, minRatio float64) *Builder {
	b := NewBuilder(tts, minRatio, zap.NewNop().Sugar())
	b.SetDurationProbe(func(path string) (float64, error) { return 1.5, nil })
	return b
}

func TestBuildPreservesSentenceOrder(t *testing.T) {
	tts := &fakeTTS{}
	b := newTestBuilder(tts, 0)

	track, err := b.Build(context.Background(), "First one. Second one! Third one?", "en", t.TempDir())
	require.NoError(t, err)
	defer track.Release()

	require.Len(t, track.Clips, 3)
	assert.Equal(t, "First one.", track.Clips[0].Text)
	assert.Equal(t, "Second one!", track.Clips[1].Text)
	assert.Equal(t, "Third one?", track.Clips[2].Text)
	assert.InDelta(t, 4.5, track.Total, 1e-9)
}

func TestFailedSentenceIsSkipped(t *testing.T) {
	tts := &fakeTTS{failText: "Second"}
	b := newTestBuilder(tts, 0)

	track, err := b.Build(context.Background(), "First one. Second one. Third one.", "en", t.TempDir())
	require.NoError(t, err)
	defer track.Release()

	require.Len(t, track.Clips, 2)
	assert.Equal(t, "First one.", track.Clips[0].Text)
	assert.Equal(t, "Third one.", track.Clips[1].Text)
	assert.InDelta(t, 3.0, track.Total, 1e-9)
}

func TestAllSentencesFailing(t *testing.T) {
	tts := &fakeTTS{failText: "one"}
	b := newTestBuilder(tts, 0)

	_, err := b.Build(context.Background(), "First one. Second one.", "en", t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyNarration)
}

func TestMinRatioEnforced(t *testing.T) {
	tts := &fakeTTS{failText: "Second"}
	b := newTestBuilder(tts, 0.9)

	_, err := b.Build(context.Background(), "First one. Second one. Third one.", "en", t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyNarration)
}

func TestEmptyScriptSynthesizesNothing(t *testing.T) {
	tts := &fakeTTS{}
	b := newTestBuilder(tts, 0)

	_, err := b.Build(context.Background(), "   \n  ", "en", t.TempDir())
	assert.ErrorIs(t, err, script.ErrEmptyScript)
	assert.Equal(t, int32(0), tts.calls.Load())
}

func TestReleaseRemovesClipFiles(t *testing.T) {
	tts := &fakeTTS{}
	b := newTestBuilder(tts, 0)
	dir := t.TempDir()

	track, err := b.Build(context.Background(), "First one. Second one.", "en", dir)
	require.NoError(t, err)
	track.Release()

	for _, c := range track.Clips {
		_, err := os.Stat(c.Path)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestZeroDurationClipDropped(t *testing.T) {
	tts := &fakeTTS{}
	b := newTestBuilder(tts, 0)
	b.SetDurationProbe(func(path string) (float64, error) {
		if strings.HasSuffix(path, "clip_1.mp3") {
			return 0, nil
		}
		return 2.0, nil
	})

	track, err := b.Build(context.Background(), "First one.", "en", t.TempDir())
	if err == nil {
		defer track.Release()
	}
	assert.ErrorIs(t, err, ErrEmptyNarration)
}
