package api

import (
	"net/http"

	"eventguard/deduplication"
	"eventguard/types"

	"github.com/gin-gonic/gin"
)

// RegisterDeduplicationRoutes registers deduplication service endpoints.
func RegisterDeduplicationRoutes(r *gin.Engine) {
	g := r.Group("/api/deduplication")
	g.POST("/events", handleDeduplicateEvents)
	g.POST("/speakers", handleDeduplicateSpeakers)
}

// DeduplicateEventsRequest represents a batch of event candidates
type DeduplicateEventsRequest struct {
	Events []types.EventRecord `json:"events"`
}

// DeduplicateSpeakersRequest represents a batch of speaker records
type DeduplicateSpeakersRequest struct {
	Speakers []types.SpeakerRecord `json:"speakers"`
}

// handleDeduplicateEvents groups near-duplicate events and picks a canonical per group
func handleDeduplicateEvents(c *gin.Context) {
	var req DeduplicateEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, deduplication.DetectNearDuplicateEvents(req.Events))
}

// handleDeduplicateSpeakers merges speakers sharing a canonical key
func handleDeduplicateSpeakers(c *gin.Context) {
	var req DeduplicateSpeakersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, deduplication.DeduplicateSpeakers(req.Speakers))
}
