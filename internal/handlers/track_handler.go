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

// TrackHandler handles HTTP requests for tracks.
type TrackHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(service *services.CatalogService) *TrackHandler {
	return &TrackHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public read routes.
func (h *TrackHandler) RegisterRoutes(router fiber.Router) {
	trackRoutes := router.Group("/tracks")
	trackRoutes.Get("/", h.HandleGetTracks)
	trackRoutes.Get("/:id", h.HandleGetTrackByID)
}

// RegisterAdminRoutes registers the admin-only mutation routes.
func (h *TrackHandler) RegisterAdminRoutes(router fiber.Router) {
	trackRoutes := router.Group("/tracks")
	trackRoutes.Post("/", h.HandleCreateTrack)
	trackRoutes.Put("/:id", h.HandleUpdateTrack)
	trackRoutes.Delete("/:id", h.HandleDeleteTrack)
	trackRoutes.Post("/:id/preview", h.HandleUploadPreview)
}

// HandleGetTracks retrieves all tracks.
func (h *TrackHandler) HandleGetTracks(c *fiber.Ctx) error {
	tracks, err := h.service.GetAllTracks()
	if err != nil {
		log.Printf("Error getting all tracks: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(tracks)
}

// HandleGetTrackByID retrieves a single track by its ID.
func (h *TrackHandler) HandleGetTrackByID(c *fiber.Ctx) error {
	track, err := h.service.GetTrackByID(c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err)
	}
	return c.JSON(track)
}

// CreateTrackRequest represents the JSON request body for track creation.
// The track's artist is derived from the album, so no artist field is
// accepted. Duration is in milliseconds.
type CreateTrackRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=150"`
	AlbumID    string `json:"album_id" validate:"required,uuid"`
	Duration   int64  `json:"duration" validate:"omitempty,gt=0"`
	PreviewURL string `json:"preview_url" validate:"omitempty,url"`
}

// HandleCreateTrack creates a new track. A multipart body with fields
// name, albumId, duration and preview uploads the preview audio to
// object storage first.
func (h *TrackHandler) HandleCreateTrack(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.handleCreateTrackMultipart(c)
	}

	var req CreateTrackRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create track request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	track, err := h.service.CreateTrack(req.Name, req.AlbumID, req.Duration, req.PreviewURL)
	if err != nil {
		log.Printf("Error creating track: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(track)
}

func (h *TrackHandler) handleCreateTrackMultipart(c *fiber.Ctx) error {
	name := c.FormValue("name")
	albumID := c.FormValue("albumId")
	durationStr := c.FormValue("duration")
	fh, err := c.FormFile("preview")
	if name == "" || albumID == "" || durationStr == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing name, albumId, duration, or preview file",
		})
	}
	duration, err := strconv.ParseInt(durationStr, 10, 64)
	if err != nil || duration <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "duration must be a positive number of milliseconds",
		})
	}

	data, filename, contentType, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read preview file",
			"error":   err.Error(),
		})
	}

	track, err := h.service.CreateTrackFromUpload(c.UserContext(), name, albumID, duration, filename, contentType, data)
	if err != nil {
		log.Printf("Error creating track with preview: %v", err)
		return serviceErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(track)
}

// HandleUpdateTrack applies a partial update to a track.
func (h *TrackHandler) HandleUpdateTrack(c *fiber.Ctx) error {
	var update models.TrackUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing update track request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(update); err != nil {
		return validationErrorResponse(c, err)
	}

	track, err := h.service.UpdateTrack(c.Params("id"), update)
	if err != nil {
		log.Printf("Error updating track %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(track)
}

// HandleDeleteTrack deletes a track.
func (h *TrackHandler) HandleDeleteTrack(c *fiber.Ctx) error {
	if err := h.service.DeleteTrack(c.Params("id")); err != nil {
		log.Printf("Error deleting track %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Track deleted successfully",
	})
}

// HandleUploadPreview replaces the track preview with an uploaded file.
func (h *TrackHandler) HandleUploadPreview(c *fiber.Ctx) error {
	fh, err := c.FormFile("preview")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing preview file",
		})
	}
	data, filename, contentType, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read preview file",
			"error":   err.Error(),
		})
	}

	track, err := h.service.UploadTrackPreview(c.UserContext(), c.Params("id"), filename, contentType, data)
	if err != nil {
		log.Printf("Error uploading preview for track %s: %v", c.Params("id"), err)
		return serviceErrorResponse(c, err)
	}
	return c.JSON(track)
}
