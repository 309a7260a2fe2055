package api

import (
	"net/http"

	"eventguard/localisation"
	"eventguard/types"

	"github.com/gin-gonic/gin"
)

// RegisterLocalisationRoutes registers the country guard endpoints.
func RegisterLocalisationRoutes(r *gin.Engine) {
	g := r.Group("/api/localisation")
	g.POST("/assert", handleAssertCountry)
	g.POST("/query", handleCountryQuery)
}

// AssertCountryRequest represents results to check against a target country
type AssertCountryRequest struct {
	Results         []types.SearchResult `json:"results"`
	ExpectedCountry string               `json:"expected_country" binding:"required"`
	CorrelationID   string               `json:"correlation_id"`
}

// CountryQueryRequest represents a search query to constrain
type CountryQueryRequest struct {
	Query   string `json:"query"`
	Country string `json:"country" binding:"required"`
}

func handleAssertCountry(c *gin.Context) {
	var req AssertCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	expected := localisation.NormalizeCountry(req.ExpectedCountry)
	c.JSON(http.StatusOK, localisation.AssertCountry(req.Results, expected, req.CorrelationID))
}

func handleCountryQuery(c *gin.Context) {
	var req CountryQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query": localisation.BuildCountryConstrainedQuery(req.Query, req.Country),
	})
}
