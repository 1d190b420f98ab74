package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/api/shared/dto"
	"github.com/feral-file/ff-acquirer/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Acquire books a reservation immediately
	// POST /api/v1/acquisitions
	Acquire(c *gin.Context)

	// ScheduleAcquisition registers a drop-time acquisition
	// POST /api/v1/acquisitions/schedule
	ScheduleAcquisition(c *gin.Context)

	// GetSchedule returns the state of a drop-time acquisition
	// GET /api/v1/acquisitions/schedule/:id
	GetSchedule(c *gin.Context)

	// CancelSchedule cancels a drop-time acquisition
	// DELETE /api/v1/acquisitions/schedule/:id
	CancelSchedule(c *gin.Context)

	// GetPattern returns the learned drop pattern of a venue
	// GET /api/v1/patterns/:venue?platform=<platform>
	GetPattern(c *gin.Context)

	// ListPatterns lists learned drop patterns
	// GET /api/v1/patterns?min_confidence=<n>&limit=<limit>
	ListPatterns(c *gin.Context)

	// ListTransfers lists transfers
	// GET /api/v1/transfers?status=<status>&limit=<limit>&offset=<offset>
	ListTransfers(c *gin.Context)

	// GetTransfer returns a transfer
	// GET /api/v1/transfers/:id
	GetTransfer(c *gin.Context)

	// TransitionTransfer moves a transfer to its next status
	// POST /api/v1/transfers/:id/transitions
	TransitionTransfer(c *gin.Context)

	// CreateWatch registers a reservation for the drop watcher
	// POST /api/v1/watches
	CreateWatch(c *gin.Context)

	// GetWatch returns a watch
	// GET /api/v1/watches/:id
	GetWatch(c *gin.Context)

	// CreateIdentity adds an identity to the pool (API key only)
	// POST /api/v1/identities
	CreateIdentity(c *gin.Context)

	// DeactivateIdentity removes an identity from selection (API key only)
	// DELETE /api/v1/identities/:id
	DeactivateIdentity(c *gin.Context)

	// ResetIdentityUsage zeroes identity usage counters (API key only)
	// POST /api/v1/identities/reset
	ResetIdentityUsage(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	executor executor.Executor
	clock    adapter.Clock
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor, clock adapter.Clock) Handler {
	return &handler{
		executor: exec,
		clock:    clock,
	}
}

func (h *handler) Acquire(c *gin.Context) {
	var req dto.AcquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.executor.Acquire(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to acquire reservation")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) ScheduleAcquisition(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	exec, err := h.executor.Schedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to schedule acquisition")
		return
	}

	c.JSON(http.StatusAccepted, exec)
}

func (h *handler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Execution ID is required")
		return
	}

	exec, err := h.executor.GetSchedule(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get execution")
		return
	}
	if exec == nil {
		respondNotFound(c, "Execution not found")
		return
	}

	c.JSON(http.StatusOK, exec)
}

func (h *handler) CancelSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Execution ID is required")
		return
	}

	resp, err := h.executor.CancelSchedule(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to cancel execution")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetPattern(c *gin.Context) {
	venue := c.Param("venue")
	if venue == "" {
		respondBadRequest(c, "Venue is required")
		return
	}

	platform, err := ParsePatternQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	pattern, err := h.executor.GetPattern(c.Request.Context(), venue, platform)
	if err != nil {
		respondError(c, err, "Failed to get drop pattern")
		return
	}
	if pattern == nil {
		respondNotFound(c, "Drop pattern not found")
		return
	}

	c.JSON(http.StatusOK, pattern)
}

func (h *handler) ListPatterns(c *gin.Context) {
	params, err := ParseListPatternsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.ListPatterns(c.Request.Context(), params.MinConfidence, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list drop patterns")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListTransfers(c *gin.Context) {
	params, err := ParseListTransfersQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.ListTransfers(c.Request.Context(), params.StatusFilter(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list transfers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetTransfer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Transfer ID is required")
		return
	}

	t, err := h.executor.GetTransfer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get transfer")
		return
	}
	if t == nil {
		respondNotFound(c, "Transfer not found")
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *handler) TransitionTransfer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Transfer ID is required")
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	t, err := h.executor.TransitionTransfer(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update transfer")
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *handler) CreateWatch(c *gin.Context) {
	var req dto.CreateWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	watch, err := h.executor.CreateWatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create watch")
		return
	}

	c.JSON(http.StatusCreated, watch)
}

func (h *handler) GetWatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Watch ID is required")
		return
	}

	watch, err := h.executor.GetWatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get watch")
		return
	}
	if watch == nil {
		respondNotFound(c, "Watch not found")
		return
	}

	c.JSON(http.StatusOK, watch)
}

func (h *handler) CreateIdentity(c *gin.Context) {
	var req dto.CreateIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	created, err := h.executor.CreateIdentity(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create identity")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *handler) DeactivateIdentity(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Identity ID is required")
		return
	}

	if err := h.executor.DeactivateIdentity(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to deactivate identity")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) ResetIdentityUsage(c *gin.Context) {
	resp, err := h.executor.ResetIdentityUsage(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to reset identity usage")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "healthy",
		Service: "ff-acquirer",
		Time:    h.clock.Now().UTC(),
	})
}
