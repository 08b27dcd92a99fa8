package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/jobs"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/pipeline"
)

type stubSubmitter struct {
	lastReq pipeline.Request
}

func (s *stubSubmitter) Submit(req pipeline.Request) string {
	s.lastReq = req
	return "job-123"
}

type stubImprover struct {
	result string
	err    error
}

func (s *stubImprover) Improve(ctx context.Context, content, language, styleHints string) (string, error) {
	return s.result, s.err
}

func newTestServer(t *testing.T, sub *stubSubmitter, imp *stubImprover) (*Server, *jobs.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := jobs.NewMemoryStore()
	return New(sub, imp, store, t.TempDir(), zap.NewNop().Sugar()), store
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateVideo(t *testing.T) {
	sub := &stubSubmitter{}
	s, _ := newTestServer(t, sub, &stubImprover{})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/generate-video",
		`{"content": "big news today", "language": "hindi"}`)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "job-123", resp["job_id"])
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, "big news today", sub.lastReq.Content)
	assert.Equal(t, "hindi", sub.lastReq.Language)
}

func TestGenerateVideoForwardsScriptAndTitle(t *testing.T) {
	sub := &stubSubmitter{}
	s, _ := newTestServer(t, sub, &stubImprover{})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/generate-video",
		`{"content": "raw press release", "script": "My exact narration, word for word.", "title": "My Title"}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "My exact narration, word for word.", sub.lastReq.Script)
	assert.Equal(t, "My Title", sub.lastReq.Title)
	assert.Equal(t, "raw press release", sub.lastReq.Content)
}

func TestGenerateVideoDefaultsLanguage(t *testing.T) {
	sub := &stubSubmitter{}
	s, _ := newTestServer(t, sub, &stubImprover{})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/generate-video", `{"content": "hello there"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "english", sub.lastReq.Language)
}

func TestGenerateVideoRejectsMissingContent(t *testing.T) {
	s, _ := newTestServer(t, &stubSubmitter{}, &stubImprover{})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/generate-video", `{"language": "english"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/generate-video", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVideoStatus(t *testing.T) {
	s, store := newTestServer(t, &stubSubmitter{}, &stubImprover{})
	r := s.Router()

	store.Put(jobs.Job{ID: "abc", Status: jobs.StatusProcessing})

	w := doJSON(t, r, http.MethodGet, "/video-status/abc", "")
	require.Equal(t, http.StatusOK, w.Code)

	var job jobs.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, jobs.StatusProcessing, job.Status)

	w = doJSON(t, r, http.MethodGet, "/video-status/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImproveScript(t *testing.T) {
	imp := &stubImprover{result: "A much better script."}
	s, _ := newTestServer(t, &stubSubmitter{}, imp)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/improve-script",
		`{"content": "a rough draft", "style": "punchy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A much better script.", resp["improved_script"])
}

func TestImproveScriptFailure(t *testing.T) {
	imp := &stubImprover{err: errors.New("model offline")}
	s, _ := newTestServer(t, &stubSubmitter{}, imp)
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/improve-script", `{"content": "a rough draft"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &stubSubmitter{}, &stubImprover{})
	w := doJSON(t, s.Router(), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVideosServedStatically(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "video_abc.mp4"), []byte("mp4"), 0o644))

	s := New(&stubSubmitter{}, &stubImprover{}, jobs.NewMemoryStore(), dir, zap.NewNop().Sugar())
	w := doJSON(t, s.Router(), http.MethodGet, "/videos/video_abc.mp4", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mp4", w.Body.String())
}
