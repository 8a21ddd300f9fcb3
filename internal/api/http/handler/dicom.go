package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medvault/dicom-server/internal/api/http/middleware"
	"github.com/medvault/dicom-server/internal/logger"
	"github.com/medvault/dicom-server/internal/model"
	"github.com/medvault/dicom-server/internal/service"
)

const dicomContentType = "application/dicom"

// DICOMService defines lifecycle operations on uploaded files.
type DICOMService interface {
	Upload(ctx context.Context, params service.UploadParams) (model.DICOMFile, error)
	List(ctx context.Context, ownerID int64) ([]model.DICOMFile, error)
	Get(ctx context.Context, ownerID, id int64) (model.DICOMFile, error)
	Download(ctx context.Context, ownerID, id int64) (model.DICOMFile, io.ReadCloser, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// DICOM handles HTTP endpoints for uploaded file records.
type DICOM struct {
	dicomService DICOMService
	logger       *logger.Logger
}

// NewDICOM creates a new DICOM handler.
func NewDICOM(dicomService DICOMService, logger *logger.Logger) *DICOM {
	return &DICOM{
		dicomService: dicomService,
		logger:       logger,
	}
}

type dicomResponse struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	PatientName string    `json:"patient_name"`
	Modality    string    `json:"modality"`
	StudyDate   string    `json:"study_date"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func newDICOMResponse(file model.DICOMFile) dicomResponse {
	return dicomResponse{
		ID:          file.ID,
		Filename:    file.Filename,
		PatientName: file.PatientName,
		Modality:    file.Modality,
		StudyDate:   file.StudyDate,
		UploadedAt:  file.UploadedAt,
	}
}

// Upload accepts a multipart DICOM file and creates its record.
func (h *DICOM) Upload(c *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, model.ErrInvalidToken)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart file field is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("DICOM handler: failed to open uploaded file",
			"filename", fileHeader.Filename,
			"error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer src.Close()

	file, err := h.dicomService.Upload(c.Request.Context(), service.UploadParams{
		OwnerID:  ownerID,
		Filename: fileHeader.Filename,
		Data:     src,
	})
	if err != nil {
		h.logger.Error("DICOM handler: upload failed",
			"filename", fileHeader.Filename,
			"owner_id", ownerID,
			"error", err.Error())
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDICOMResponse(file))
}

// List returns all records owned by the caller.
func (h *DICOM) List(c *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, model.ErrInvalidToken)
		return
	}

	files, err := h.dicomService.List(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dicomResponse, 0, len(files))
	for _, file := range files {
		response = append(response, newDICOMResponse(file))
	}

	c.JSON(http.StatusOK, response)
}

// Get returns a single record by id.
func (h *DICOM) Get(c *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, model.ErrInvalidToken)
		return
	}

	id, err := parseID(c)
	if err != nil {
		respondError(c, model.ErrNotFound)
		return
	}

	file, err := h.dicomService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDICOMResponse(file))
}

// Download streams the stored bytes with the original filename.
func (h *DICOM) Download(c *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, model.ErrInvalidToken)
		return
	}

	id, err := parseID(c)
	if err != nil {
		respondError(c, model.ErrNotFound)
		return
	}

	file, reader, err := h.dicomService.Download(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, dicomContentType, reader, map[string]string{
		"Content-Disposition": `attachment; filename="` + file.Filename + `"`,
	})
}

// Delete removes the record and its stored bytes.
func (h *DICOM) Delete(c *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, model.ErrInvalidToken)
		return
	}

	id, err := parseID(c)
	if err != nil {
		respondError(c, model.ErrNotFound)
		return
	}

	if err := h.dicomService.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
