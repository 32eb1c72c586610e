package service

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/tierstore/tierstore/internal/pkg/errors"
	"github.com/tierstore/tierstore/internal/pkg/response"
	"github.com/tierstore/tierstore/internal/storage/biz"
	"go.uber.org/zap"
)

// StorageService exposes the object lifecycle over HTTP
type StorageService struct {
	uc     *biz.StorageUseCase
	logger *zap.Logger
}

// NewStorageService creates the object HTTP service
func NewStorageService(uc *biz.StorageUseCase, logger *zap.Logger) *StorageService {
	return &StorageService{
		uc:     uc,
		logger: logger,
	}
}

// FileMetadataResponse is the wire form of an object metadata record
type FileMetadataResponse struct {
	FileID       string `json:"file_id"`
	FileName     string `json:"filename"`
	Size         int64  `json:"size"`
	Tier         string `json:"tier"`
	ContentType  string `json:"content_type"`
	ETag         string `json:"etag"`
	CreatedAt    string `json:"created_at"`
	LastAccessed string `json:"last_accessed"`
}

// DownloadResponse carries the content alongside the fields a client needs
// to reconstruct the file
type DownloadResponse struct {
	Content     string `json:"content"`
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// Upload handles POST /files
func (s *StorageService) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrStorageInvalidInput, "multipart field 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrStorageInvalidInput, "unable to open uploaded file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		s.logger.Error("failed to read upload body", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrInternalServer)
		return
	}

	meta, err := s.uc.Upload(c.Request.Context(), fileHeader.Filename, content, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Created(c, toMetadataResponse(meta))
}

// Download handles GET /files/:id
func (s *StorageService) Download(c *gin.Context) {
	id := c.Param("id")

	content, meta, err := s.uc.Download(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, DownloadResponse{
		Content:     string(content),
		FileName:    meta.FileName,
		ContentType: meta.ContentType,
	})
}

// GetMetadata handles GET /files/:id/metadata. Reading metadata is not an
// access: LastAccessed is left untouched.
func (s *StorageService) GetMetadata(c *gin.Context) {
	id := c.Param("id")

	meta, err := s.uc.GetMetadata(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, toMetadataResponse(meta))
}

// Delete handles DELETE /files/:id
func (s *StorageService) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := s.uc.Delete(c.Request.Context(), id); err != nil {
		s.handleError(c, err)
		return
	}

	response.NoContent(c)
}

// RegisterRoutes mounts the object endpoints on the given group
func (s *StorageService) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.POST("", s.Upload)
		files.GET("/:id", s.Download)
		files.GET("/:id/metadata", s.GetMetadata)
		files.DELETE("/:id", s.Delete)
	}
}

// handleError maps domain errors onto the storage error codes
func (s *StorageService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrObjectNotFound):
		response.ErrorWithCode(c, apperrors.ErrStorageObjectNotFound)
	case errors.Is(err, biz.ErrFileTooSmall):
		response.ErrorWithCode(c, apperrors.ErrStorageFileTooSmall)
	case errors.Is(err, biz.ErrFileTooLarge):
		response.ErrorWithCode(c, apperrors.ErrStorageFileTooLarge)
	case errors.Is(err, biz.ErrFileEmpty):
		response.ErrorWithCode(c, apperrors.ErrStorageInvalidInput, err.Error())
	case errors.Is(err, biz.ErrBlobWriteFailed), errors.Is(err, biz.ErrBlobReadFailed):
		response.ErrorWithCode(c, apperrors.ErrStorageWriteFailed)
	default:
		s.logger.Error("storage operation failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrInternalServer)
	}
}

func toMetadataResponse(meta *biz.ObjectMeta) *FileMetadataResponse {
	return &FileMetadataResponse{
		FileID:       meta.ID,
		FileName:     meta.FileName,
		Size:         meta.SizeBytes,
		Tier:         meta.Tier.String(),
		ContentType:  meta.ContentType,
		ETag:         meta.ETag,
		CreatedAt:    meta.CreatedAt.UTC().Format(time.RFC3339),
		LastAccessed: meta.LastAccessed.UTC().Format(time.RFC3339),
	}
}
