// Read-only dashboard API over persisted jobs and the run ledger
// No scraping logic runs here

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-schoolwatch/internal/database"
	"go-schoolwatch/internal/telemetry"
)

type Server struct {
	repo *database.Repository
}

func New(repo *database.Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "School Job Watcher API is running!",
			"status":  "healthy",
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(telemetry.Handler()))

	api := r.Group("/api")
	api.GET("/jobs", s.handleJobs)
	api.GET("/runs", s.handleRuns)

	return r
}

// handleJobs lists postings newest-first. Active rows by default;
// ?active=false includes the inactive history.
func (s *Server) handleJobs(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"

	jobs, err := s.repo.ListJobs(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if activeOnly {
		telemetry.ActiveJobsGauge.Set(float64(len(jobs)))
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(jobs),
		"jobs":  jobs,
	})
}

func (s *Server) handleRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	runs, err := s.repo.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(runs),
		"runs":  runs,
	})
}
