package api

import (
	"net/http"

	"eventguard/deduplication"
	"eventguard/types"

	"github.com/gin-gonic/gin"
)

// RegisterCanonicalRoutes registers URL canonicalisation and key generation endpoints.
func RegisterCanonicalRoutes(r *gin.Engine) {
	g := r.Group("/api/canonical")
	g.POST("/url", handleCanonicalURL)
	g.POST("/event-key", handleEventKey)
	g.POST("/speaker-key", handleSpeakerKey)
}

// CanonicalURLRequest carries a single URL to canonicalise
type CanonicalURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// CanonicalURLResponse echoes the input next to its canonical form
type CanonicalURLResponse struct {
	URL       string `json:"url"`
	Canonical string `json:"canonical"`
}

// EventKeyRequest carries the event to key
type EventKeyRequest struct {
	Event *types.EventRecord `json:"event" binding:"required"`
}

// SpeakerKeyRequest carries the speaker to key
type SpeakerKeyRequest struct {
	Speaker *types.SpeakerRecord `json:"speaker" binding:"required"`
}

func handleCanonicalURL(c *gin.Context) {
	var req CanonicalURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, CanonicalURLResponse{
		URL:       req.URL,
		Canonical: deduplication.CanonicalizeURL(req.URL),
	})
}

func handleEventKey(c *gin.Context) {
	var req EventKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, deduplication.GenerateEventKey(*req.Event))
}

func handleSpeakerKey(c *gin.Context) {
	var req SpeakerKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, deduplication.GenerateSpeakerKey(*req.Speaker))
}
