package api

import (
	"net/http"
	"time"

	"eventguard/logging"
	"eventguard/metrics"
	"eventguard/pipeline"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the routes need. Nil Metrics leaves /metrics unregistered
// and nil Reports leaves /api/reports unregistered; a nil Runner is replaced by one
// without collaborators.
type Deps struct {
	Runner  *pipeline.Runner
	Metrics *metrics.Metrics
	Reports ReportStore
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Runner == nil {
		deps.Runner = pipeline.NewRunner(pipeline.Options{Metrics: deps.Metrics})
	}

	r := gin.New()
	// Minimal middleware: recovery plus debug-level request logs
	r.Use(gin.Recovery(), requestLogger())

	// Register resource routers
	RegisterHealthRoutes(r)
	RegisterCanonicalRoutes(r)
	RegisterDeduplicationRoutes(r)
	RegisterLocalisationRoutes(r)
	RegisterPipelineRoutes(r, deps.Runner)
	if deps.Reports != nil {
		RegisterReportRoutes(r, deps.Reports)
	}
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	return r
}

// NewMetricsRouter serves only GET /metrics, for processes without the API
func NewMetricsRouter(m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// badRequest writes the shared error body for undecodable requests
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
