package service

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/tierstore/tierstore/internal/pkg/errors"
	"github.com/tierstore/tierstore/internal/pkg/response"
	"github.com/tierstore/tierstore/internal/storage/biz"
	"github.com/tierstore/tierstore/internal/storage/types"
	"go.uber.org/zap"
)

// AdminService exposes the tiering pass trigger and the admin support
// operations over HTTP
type AdminService struct {
	engine *biz.Engine
	uc     *biz.StorageUseCase
	logger *zap.Logger
}

// NewAdminService creates the admin HTTP service
func NewAdminService(engine *biz.Engine, uc *biz.StorageUseCase, logger *zap.Logger) *AdminService {
	return &AdminService{
		engine: engine,
		uc:     uc,
		logger: logger,
	}
}

// TieringResponse reports one tiering pass
type TieringResponse struct {
	Status       string `json:"status"`
	FilesMoved   int    `json:"files_moved"`
	FilesSkipped int    `json:"files_skipped,omitempty"`
}

// UpdateLastAccessedRequest backdates an object's access time
type UpdateLastAccessedRequest struct {
	DaysAgo int `json:"days_ago"`
}

// UpdateLastAccessedResponse confirms the applied backdate
type UpdateLastAccessedResponse struct {
	Status       string `json:"status"`
	FileID       string `json:"file_id"`
	LastAccessed string `json:"last_accessed"`
}

// StatsResponse is the wire form of the storage statistics
type StatsResponse struct {
	TotalFiles int64                `json:"total_files"`
	TotalSize  int64                `json:"total_size"`
	Tiers      map[string]TierStats `json:"tiers"`
}

// TierStats aggregates one tier on the wire
type TierStats struct {
	Count int64 `json:"count"`
	Size  int64 `json:"size"`
}

// RunTiering handles POST /admin/tiering/run. The pass runs to completion
// over its snapshot; skipped records degrade the status, never fail the pass.
func (s *AdminService) RunTiering(c *gin.Context) {
	result, err := s.engine.RunPass(c.Request.Context())
	if err != nil {
		s.logger.Error("tiering pass failed", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrStorageTieringFailed)
		return
	}

	response.Success(c, TieringResponse{
		Status:       result.Status(),
		FilesMoved:   result.Moved,
		FilesSkipped: result.Skipped,
	})
}

// UpdateLastAccessed handles POST /admin/files/:id/update-last-accessed.
// Accepts arbitrary backdates, including before the creation time.
func (s *AdminService) UpdateLastAccessed(c *gin.Context) {
	id := c.Param("id")

	var req UpdateLastAccessedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	t, err := s.uc.Backdate(c.Request.Context(), id, req.DaysAgo)
	if err != nil {
		if errors.Is(err, biz.ErrObjectNotFound) {
			response.ErrorWithCode(c, apperrors.ErrStorageObjectNotFound)
			return
		}
		s.logger.Error("failed to update last accessed", zap.String("id", id), zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrInternalServer)
		return
	}

	response.Success(c, UpdateLastAccessedResponse{
		Status:       "success",
		FileID:       id,
		LastAccessed: t.UTC().Format(time.RFC3339),
	})
}

// Stats handles GET /admin/stats
func (s *AdminService) Stats(c *gin.Context) {
	stats, err := s.uc.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to compute stats", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrInternalServer)
		return
	}

	resp := StatsResponse{
		TotalFiles: stats.TotalFiles,
		TotalSize:  stats.TotalSize,
		Tiers:      make(map[string]TierStats, len(stats.Tiers)),
	}
	for _, tier := range types.AllTiers() {
		ts := stats.Tiers[tier]
		resp.Tiers[tier.String()] = TierStats{Count: ts.Count, Size: ts.Size}
	}

	response.Success(c, resp)
}

// RegisterRoutes mounts the admin endpoints on the given group
func (s *AdminService) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.POST("/tiering/run", s.RunTiering)
		admin.POST("/files/:id/update-last-accessed", s.UpdateLastAccessed)
		admin.GET("/stats", s.Stats)
	}
}
