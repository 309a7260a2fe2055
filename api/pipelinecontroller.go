package api

import (
	"net/http"

	"eventguard/logging"
	"eventguard/pipeline"

	"github.com/gin-gonic/gin"
)

type runAllRequest struct {
	Batches []pipeline.Batch `json:"batches" binding:"required,min=1,dive"`
}

// RegisterPipelineRoutes registers the batch endpoints backed by runner.
func RegisterPipelineRoutes(r *gin.Engine, runner *pipeline.Runner) {
	r.POST("/api/pipeline/run", func(c *gin.Context) {
		var batch pipeline.Batch
		if err := c.ShouldBindJSON(&batch); err != nil {
			badRequest(c, err)
			return
		}

		report, err := runner.Run(c.Request.Context(), batch)
		if err != nil {
			logging.Error("pipeline run failed", "correlation_id", batch.CorrelationID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "pipeline run failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	})

	// Batches run concurrently, bounded by the runner's concurrency
	r.POST("/api/pipeline/run-all", func(c *gin.Context) {
		var req runAllRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		reports, err := runner.RunAll(c.Request.Context(), req.Batches)
		if err != nil {
			logging.Error("pipeline run-all failed", "batches", len(req.Batches), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "pipeline run failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	})
}
