package handlers

import (
	"log"
	"strings"

	"musiccatalog/internal/models"
	"musiccatalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ArtistHandler handles HTTP requests for artists.
type ArtistHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewArtistHandler creates a new ArtistHandler.
func NewArtistHandler(service *services.CatalogService) *ArtistHandler {
	return &ArtistHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public read routes.
func (h *ArtistHandler) RegisterRoutes(router fiber.Router) {
	artistRoutes := router.Group("/artists")
	artistRoutes.Get("/", h.HandleGetArtists)
	artistRoutes.Get("/:id", h.HandleGetArtistByID)
}

// RegisterAdminRoutes registers the admin-only mutation routes.
func (h *ArtistHandler) RegisterAdminRoutes(router fiber.Router) {
	artistRoutes := router.Group("/artists")
	artistRoutes.Post("/", h.HandleCreateArtist)
	artistRoutes.Put("/:id", h.HandleUpdateArtist)
	artistRoutes.Delete("/:id", h.HandleDeleteArtist)
	artistRoutes.Post("/:id/image", h.HandleUploadImage)
}

// HandleGetArtists retrieves all artists.
func (h *ArtistHandler) HandleGetArtists(c *fiber.Ctx) error {
	artists, err := h.service.GetAllArtists()
	if err != nil {
		log.Printf("Error getting all artists: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(artists)
}

// HandleGetArtistByID retrieves a single artist by its ID.
func (h *ArtistHandler) HandleGetArtistByID(c *fiber.Ctx) error {
	artist, err := h.service.GetArtistByID(c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return c.JSON(artist)
}

// CreateArtistRequest represents the JSON request body for artist creation.
type CreateArtistRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Genre    string `json:"genre" validate:"omitempty,max=50"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// HandleCreateArtist creates a new artist. A JSON body creates the artist
// with an optional pre-existing image URL; a multipart body with fields
// name, genre and image uploads the image to object storage first.
func (h *ArtistHandler) HandleCreateArtist(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.handleCreateArtistMultipart(c)
	}

	var req CreateArtistRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create artist request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	artist, err := h.service.CreateArtist(req.Name, req.Genre, req.ImageURL)
	if err != nil {
		log.Printf("Error creating artist: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(artist)
}

func (h *ArtistHandler) handleCreateArtistMultipart(c *fiber.Ctx) error {
	name := c.FormValue("name")
	genre := c.FormValue("genre")
	fh, err := c.FormFile("image")
	if name == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing name, genre, or image file",
		})
	}

	data, filename, contentType, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read image file",
			"error":   err.Error(),
		})
	}

	artist, err := h.service.CreateArtistFromUpload(c.UserContext(), name, genre, filename, contentType, data)
	if err != nil {
		log.Printf("Error creating artist with image: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(artist)
}

// HandleUpdateArtist applies a partial update to an artist.
func (h *ArtistHandler) HandleUpdateArtist(c *fiber.Ctx) error {
	var update models.ArtistUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing update artist request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(update); err != nil {
		return validationErrorResponse(c, err)
	}

	artist, err := h.service.UpdateArtist(c.Params("id"), update)
	if err != nil {
		log.Printf("Error updating artist %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(artist)
}

// HandleDeleteArtist deletes an artist unless it still owns albums or
// tracks.
func (h *ArtistHandler) HandleDeleteArtist(c *fiber.Ctx) error {
	if err := h.service.DeleteArtist(c.Params("id")); err != nil {
		log.Printf("Error deleting artist %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Artist deleted successfully",
	})
}

// HandleUploadImage replaces the artist image with an uploaded file.
func (h *ArtistHandler) HandleUploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing image file",
		})
	}
	data, filename, contentType, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read image file",
			"error":   err.Error(),
		})
	}

	artist, err := h.service.UploadArtistImage(c.UserContext(), c.Params("id"), filename, contentType, data)
	if err != nil {
		log.Printf("Error uploading image for artist %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(artist)
}
