package handlers

import (
	"log"

	"musiccatalog/internal/models"
	"musiccatalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler handles the public track search endpoint.
type SearchHandler struct {
	service *services.CatalogService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.CatalogService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// RegisterRoutes registers the search route.
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/search", h.HandleSearch)
}

// HandleSearch matches the q parameter against track, artist and album
// names and returns the flattened matches.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing query parameter 'q'",
		})
	}

	views, err := h.service.Search(query)
	if err != nil {
		log.Printf("Error searching for %q: %v", query, err)
		return serviceErrorResponse(c, err)
	}

	return c.JSON(models.SearchResponse{
		Tracks: models.TracksWrapper{Items: views},
	})
}
