package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eventguard/logging"
	"eventguard/pipeline"
	"eventguard/storage"

	"github.com/gin-gonic/gin"
)

// ReportStore reads archived reports. *storage.ReportArchiver implements it.
type ReportStore interface {
	List(ctx context.Context, day time.Time) ([]string, error)
	LoadReport(ctx context.Context, id string, day time.Time, v any) error
}

// RegisterReportRoutes registers read access to the report archive.
func RegisterReportRoutes(r *gin.Engine, store ReportStore) {
	g := r.Group("/api/reports")

	// ?date=YYYY-MM-DD, defaults to today (UTC)
	g.GET("", func(c *gin.Context) {
		day := time.Now().UTC()
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				badRequest(c, err)
				return
			}
			day = parsed
		}

		ids, err := store.List(c.Request.Context(), day)
		if err != nil {
			logging.Error("failed to list reports", "date", day.Format(time.DateOnly), "err", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list reports"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": day.Format(time.DateOnly), "ids": ids})
	})

	g.GET("/:date/:id", func(c *gin.Context) {
		day, err := time.Parse(time.DateOnly, c.Param("date"))
		if err != nil {
			badRequest(c, err)
			return
		}

		var report pipeline.Report
		err = store.LoadReport(c.Request.Context(), c.Param("id"), day, &report)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, report)
		case errors.Is(err, storage.ErrInvalidID):
			badRequest(c, err)
		case errors.Is(err, storage.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logging.Error("failed to load report", "id", c.Param("id"), "err", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load report"})
		}
	})
}
