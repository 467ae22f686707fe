package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/storage"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

// maxAssetSize caps uploads at 50 MiB.
const maxAssetSize = 50 << 20

type FileHandler struct {
	BaseHandler
	store storage.Store
}

func NewFileHandler(store storage.Store, logger utils.Logger) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
	}
}

// Upload stores a course asset and returns its asset ID. The returned ID is
// what teachers attach to a course's syllabus or video list.
func (h *FileHandler) Upload(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	if actor.Role != models.RoleTeacher {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Only teachers can upload course assets",
		})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAssetSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing or invalid file field",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	id, err := h.store.Save(header.Filename, file)
	if err != nil {
		h.LogError(c, err, "Failed to store asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to store file",
		})
		return
	}

	h.LogRequest(c, "Asset uploaded", "asset_id", id, "size", header.Size)

	c.JSON(http.StatusCreated, gin.H{
		"asset_id": id,
		"filename": header.Filename,
	})
}

// Download streams an asset back by ID.
func (h *FileHandler) Download(c *gin.Context) {
	if _, ok := h.requireActor(c); !ok {
		return
	}

	id := c.Param("id")

	content, filename, err := h.store.Open(id)
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: "Asset not found",
			})
			return
		}
		h.LogError(c, err, "Failed to open asset", "asset_id", id)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to read file",
		})
		return
	}
	defer content.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, content); err != nil {
		h.LogError(c, err, "Failed to stream asset", "asset_id", id)
	}
}
