package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-acquirer/internal/api/shared/constants"
	"github.com/feral-file/ff-acquirer/internal/domain"
)

// ListTransfersQueryParams holds query parameters for GET /transfers
type ListTransfersQueryParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

// ParseListTransfersQuery parses query parameters for GET /transfers
func ParseListTransfersQuery(c *gin.Context) (*ListTransfersQueryParams, error) {
	var params ListTransfersQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}
	return &params, nil
}

// Validate validates the query parameters
func (p *ListTransfersQueryParams) Validate() error {
	if p.Status != "" && !domain.IsValidTransferStatus(domain.TransferStatus(p.Status)) {
		return fmt.Errorf("unknown status: %q", p.Status)
	}
	if p.Limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	return nil
}

// StatusFilter returns the status filter, nil when absent
func (p *ListTransfersQueryParams) StatusFilter() *domain.TransferStatus {
	if p.Status == "" {
		return nil
	}
	status := domain.TransferStatus(p.Status)
	return &status
}

// PatternQueryParams holds query parameters for GET /patterns/:venue
type PatternQueryParams struct {
	Platform string `form:"platform"`
}

// ParsePatternQuery parses query parameters for GET /patterns/:venue
func ParsePatternQuery(c *gin.Context) (*domain.Platform, error) {
	var params PatternQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if params.Platform == "" {
		return nil, nil
	}

	platform, err := domain.ParsePlatform(params.Platform)
	if err != nil {
		return nil, err
	}
	return &platform, nil
}

// ListPatternsQueryParams holds query parameters for GET /patterns
type ListPatternsQueryParams struct {
	MinConfidence int `form:"min_confidence,default=0"`
	Limit         int `form:"limit,default=50"`
}

// ParseListPatternsQuery parses query parameters for GET /patterns
func ParseListPatternsQuery(c *gin.Context) (*ListPatternsQueryParams, error) {
	var params ListPatternsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if params.MinConfidence < 0 || params.MinConfidence > domain.PATTERN_MAX_CONFIDENCE {
		return nil, fmt.Errorf("min_confidence must be between 0 and %d", domain.PATTERN_MAX_CONFIDENCE)
	}
	if params.Limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1")
	}
	return &params, nil
}
