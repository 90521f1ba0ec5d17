package handlers

import (
	"log"
	"strconv"
	"strings"

	"musiccatalog/internal/models"
	"musiccatalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AlbumHandler handles HTTP requests for albums.
type AlbumHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewAlbumHandler creates a new AlbumHandler.
func NewAlbumHandler(service *services.CatalogService) *AlbumHandler {
	return &AlbumHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public read routes.
func (h *AlbumHandler) RegisterRoutes(router fiber.Router) {
	albumRoutes := router.Group("/albums")
	albumRoutes.Get("/", h.HandleGetAlbums)
	albumRoutes.Get("/:id", h.HandleGetAlbumByID)
}

// RegisterAdminRoutes registers the admin-only mutation routes.
func (h *AlbumHandler) RegisterAdminRoutes(router fiber.Router) {
	albumRoutes := router.Group("/albums")
	albumRoutes.Post("/", h.HandleCreateAlbum)
	albumRoutes.Put("/:id", h.HandleUpdateAlbum)
	albumRoutes.Delete("/:id", h.HandleDeleteAlbum)
	albumRoutes.Post("/:id/art", h.HandleUploadArt)
}

// HandleGetAlbums retrieves all albums.
func (h *AlbumHandler) HandleGetAlbums(c *fiber.Ctx) error {
	albums, err := h.service.GetAllAlbums()
	if err != nil {
		log.Printf("Error getting all albums: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(albums)
}

// HandleGetAlbumByID retrieves a single album by its ID.
func (h *AlbumHandler) HandleGetAlbumByID(c *fiber.Ctx) error {
	album, err := h.service.GetAlbumByID(c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return c.JSON(album)
}

// CreateAlbumRequest represents the JSON request body for album creation.
type CreateAlbumRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=150"`
	ArtistID string `json:"artist_id" validate:"required,uuid"`
	Year     int    `json:"year" validate:"omitempty,gte=1000,lte=9999"`
	ArtURL   string `json:"art_url" validate:"omitempty,url"`
}

// HandleCreateAlbum creates a new album. A multipart body with fields
// name, artistId, year and albumArt uploads the art to object storage
// first.
func (h *AlbumHandler) HandleCreateAlbum(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.handleCreateAlbumMultipart(c)
	}

	var req CreateAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create album request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	album, err := h.service.CreateAlbum(req.Name, req.ArtistID, req.Year, req.ArtURL)
	if err != nil {
		log.Printf("Error creating album: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(album)
}

func (h *AlbumHandler) handleCreateAlbumMultipart(c *fiber.Ctx) error {
	name := c.FormValue("name")
	artistID := c.FormValue("artistId")
	yearStr := c.FormValue("year")
	fh, err := c.FormFile("albumArt")
	if name == "" || artistID == "" || yearStr == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing name, artistId, year, or albumArt file",
		})
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "year must be a number",
		})
	}

	data, filename, contentType, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read albumArt file",
			"error":   err.Error(),
		})
	}

	album, err := h.service.CreateAlbumFromUpload(c.UserContext(), name, artistID, year, filename, contentType, data)
	if err != nil {
		log.Printf("Error creating album with art: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(album)
}

// HandleUpdateAlbum applies a partial update to an album.
func (h *AlbumHandler) HandleUpdateAlbum(c *fiber.Ctx) error {
	var update models.AlbumUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing update album request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(update); err != nil {
		return validationErrorResponse(c, err)
	}

	album, err := h.service.UpdateAlbum(c.Params("id"), update)
	if err != nil {
		log.Printf("Error updating album %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(album)
}

// HandleDeleteAlbum deletes an album unless it still owns tracks.
func (h *AlbumHandler) HandleDeleteAlbum(c *fiber.Ctx) error {
	if err := h.service.DeleteAlbum(c.Params("id")); err != nil {
		log.Printf("Error deleting album %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Album deleted successfully",
	})
}

// HandleUploadArt replaces the album art with an uploaded file.
func (h *AlbumHandler) HandleUploadArt(c *fiber.Ctx) error {
	fh, err := c.FormFile("albumArt")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing albumArt file",
		})
	}
	data, filename, contentType, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read albumArt file",
			"error":   err.Error(),
		})
	}

	album, err := h.service.UploadAlbumArt(c.UserContext(), c.Params("id"), filename, contentType, data)
	if err != nil {
		log.Printf("Error uploading art for album %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(album)
}
