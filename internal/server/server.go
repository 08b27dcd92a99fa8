// Package server exposes the HTTP API: job submission, status polling,
// script improvement and the static video files.
package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/jobs"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/pipeline"
)

// Submitter starts background jobs.
type Submitter interface {
	Submit(req pipeline.Request) string
}

// Improver rewrites scripts without rendering a video.
type Improver interface {
	Improve(ctx context.Context, content, language, styleHints string) (string, error)
}

type Server struct {
	submitter Submitter
	improver  Improver
	store     jobs.Store
	log       *zap.SugaredLogger
	videosDir string
}

func New(submitter Submitter, improver Improver, store jobs.Store, videosDir string, log *zap.SugaredLogger) *Server {
	return &Server{
		submitter: submitter,
		improver:  improver,
		store:     store,
		log:       log,
		videosDir: videosDir,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", s.health)
	r.POST("/generate-video", s.generateVideo)
	r.GET("/video-status/:job_id", s.videoStatus)
	r.POST("/improve-script", s.improveScript)
	r.Static("/videos", s.videosDir)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "video-pipeline"})
}

type generateRequest struct {
	Content  string `json:"content" binding:"required"`
	Language string `json:"language"`
	Script   string `json:"script"`
	Title    string `json:"title"`
}

func (s *Server) generateVideo(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if req.Language == "" {
		req.Language = "english"
	}

	id := s.submitter.Submit(pipeline.Request{
		Content:  req.Content,
		Language: req.Language,
		Script:   req.Script,
		Title:    req.Title,
	})
	s.log.Infow("job submitted", "job", id)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  id,
		"status":  string(jobs.StatusPending),
		"message": "video generation started, poll /video-status/" + id,
	})
}

func (s *Server) videoStatus(c *gin.Context) {
	id := c.Param("job_id")
	job, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job id"})
		return
	}
	c.JSON(http.StatusOK, job)
}

type improveRequest struct {
	Content  string `json:"content" binding:"required"`
	Language string `json:"language"`
	Style    string `json:"style"`
}

func (s *Server) improveScript(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if req.Language == "" {
		req.Language = "english"
	}

	improved, err := s.improver.Improve(c.Request.Context(), req.Content, req.Language, req.Style)
	if err != nil {
		s.log.Warnw("script improvement failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "script improvement failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"improved_script": improved})
}
