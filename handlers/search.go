package handlers

import (
	"errors"
	"net/http"

	"voyago/models"
	"voyago/services/provider"

	"github.com/gin-gonic/gin"
)

// SearchRegistry is wired from main with every configured adapter.
var SearchRegistry *provider.Registry

// SearchProvider runs a search against one provider and returns canonical offers.
func SearchProvider(c *gin.Context) {
	providerID := c.Param("provider")

	var criteria models.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	adapter := SearchRegistry.Lookup(providerID)
	if adapter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider", "provider": providerID})
		return
	}

	offers, err := adapter.Search(c.Request.Context(), criteria)
	if err != nil {
		status, body := searchErrorResponse(providerID, err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": adapter.Provider(),
		"kind":     adapter.Kind(),
		"offers":   offers,
	})
}

// GetOfferDetails fetches a single offer from a provider that supports it.
func GetOfferDetails(c *gin.Context) {
	providerID := c.Param("provider")
	offerID := c.Param("offerID")

	adapter := SearchRegistry.Lookup(providerID)
	if adapter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider", "provider": providerID})
		return
	}

	details, ok := adapter.(provider.DetailsAdapter)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider does not expose offer details", "provider": providerID})
		return
	}

	offer, err := details.Details(c.Request.Context(), offerID)
	if err != nil {
		status, body := searchErrorResponse(providerID, err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": providerID, "offer": offer})
}

func searchErrorResponse(providerID string, err error) (int, gin.H) {
	var notConfigured *provider.ProviderNotConfigured
	if errors.As(err, &notConfigured) {
		return http.StatusServiceUnavailable, gin.H{
			"error":    "provider not configured",
			"provider": providerID,
		}
	}

	var searchFailed *provider.ProviderSearchFailed
	if errors.As(err, &searchFailed) {
		return http.StatusBadGateway, gin.H{
			"error":          "provider search failed",
			"provider":       providerID,
			"upstreamStatus": searchFailed.Status,
		}
	}

	return http.StatusBadGateway, gin.H{
		"error":    "provider unreachable",
		"provider": providerID,
	}
}
