package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harper/simscan/internal/aggregate"
	"github.com/harper/simscan/internal/client"
	"github.com/harper/simscan/internal/domain"
)

// BatchHandler serves batch snapshots and aggregated reports, proxying the
// analysis backend.
type BatchHandler struct {
	backend *client.Client
}

// NewBatchHandler creates a new batch handler.
// Parameters:
//   - backend: analysis backend client.
// Returns:
//   - *BatchHandler: initialized handler.
func NewBatchHandler(backend *client.Client) *BatchHandler {
	return &BatchHandler{backend: backend}
}

// List handles GET /api/v1/batches.
// Parameters:
//   - c: Gin request context; supports a ?page query parameter.
// Returns: none (writes JSON response).
func (h *BatchHandler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
			return
		}
		page = parsed
	}

	result, err := h.backend.ListBatches(c.Request.Context(), page)
	if err != nil {
		writeBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/batches/:id, returning the normalized snapshot.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.backend.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Report handles GET /api/v1/batches/:id/report, returning the snapshot
// together with its aggregated view.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *BatchHandler) Report(c *gin.Context) {
	batch, err := h.backend.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": batch.Status,
		"batch":  batch,
		"report": aggregate.Compute(batch),
	})
}

// Delete handles DELETE /api/v1/batches/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.backend.DeleteBatch(c.Request.Context(), c.Param("id")); err != nil {
		writeBackendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeBackendError maps client errors onto gateway responses: missing
// batches stay 404 with the "may have been deleted" hint, malformed payloads
// and transport failures surface as bad-gateway conditions.
func writeBackendError(c *gin.Context, err error) {
	var nerr *domain.NormalizationError
	switch {
	case errors.Is(err, client.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found. It may have been deleted."})
	case errors.As(err, &nerr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Backend returned an unexpected payload: " + nerr.Reason})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Backend request failed: " + err.Error()})
	}
}
