package transfer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/store"
)

const (
	DEFAULT_LIST_LIMIT = 50
	MAX_LIST_LIMIT     = 200
)

// ErrNotFound is returned when a transfer does not exist
var ErrNotFound = store.ErrTransferNotFound

// Service drives acquired reservations through the transfer lifecycle
//
//go:generate mockgen -source=service.go -destination=../mocks/transfer_service.go -package=mocks -mock_names=Service=MockTransferService
type Service interface {
	// Create registers a freshly acquired reservation in the ACQUIRED state
	Create(ctx context.Context, input store.CreateTransferInput) (*domain.Transfer, error)

	// Get returns a transfer, or ErrNotFound
	Get(ctx context.Context, id string) (*domain.Transfer, error)

	// List returns transfers newest first, optionally filtered by status
	List(ctx context.Context, status *domain.TransferStatus, limit, offset int) ([]*domain.Transfer, error)

	// Advance moves a transfer to the given status.
	// A transition that is not allowed from the current status fails with an invalid_transition error
	// and leaves the transfer untouched.
	Advance(ctx context.Context, id string, to domain.TransferStatus, details domain.TransitionDetails) (*domain.Transfer, error)
}

type service struct {
	store store.Store
}

// NewService creates a transfer service backed by the store
func NewService(st store.Store) Service {
	return &service{store: st}
}

func (s *service) Create(ctx context.Context, input store.CreateTransferInput) (*domain.Transfer, error) {
	row, err := s.store.CreateTransfer(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	logger.InfoCtx(ctx, "Transfer created",
		zap.String("transferID", row.ID),
		zap.String("platform", input.Platform.String()),
		zap.String("venue", input.VenueRef),
	)
	return row.ToDomain(), nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Transfer, error) {
	row, err := s.store.GetTransferByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row.ToDomain(), nil
}

func (s *service) List(ctx context.Context, status *domain.TransferStatus, limit, offset int) ([]*domain.Transfer, error) {
	if status != nil && !domain.IsValidTransferStatus(*status) {
		return nil, domain.NewError(domain.ErrorKindConfiguration, "", "unknown transfer status "+string(*status), nil)
	}
	if limit <= 0 {
		limit = DEFAULT_LIST_LIMIT
	}
	limit = min(limit, MAX_LIST_LIMIT)
	offset = max(offset, 0)

	rows, err := s.store.ListTransfers(ctx, store.TransferFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, row.ToDomain())
	}
	return transfers, nil
}

func (s *service) Advance(ctx context.Context, id string, to domain.TransferStatus, details domain.TransitionDetails) (*domain.Transfer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateTransition(current.Status, to, details); err != nil {
		logger.WarnCtx(ctx, "Rejected transfer transition",
			zap.String("transferID", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return current, err
	}

	row, err := s.store.UpdateTransferStatus(ctx, store.UpdateTransferStatusInput{
		ID:      id,
		From:    current.Status,
		To:      to,
		Details: details,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTransferStateChanged):
			// Another writer won the race; report against the state it left behind
			var latest *domain.Transfer
			if row != nil {
				latest = row.ToDomain()
			}
			from := current.Status
			if latest != nil {
				from = latest.Status
			}
			return latest, domain.NewError(domain.ErrorKindInvalidTransition, "",
				"cannot move transfer from "+string(from)+" to "+string(to), err)
		case errors.Is(err, store.ErrTransferNotFound):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("failed to update transfer: %w", err)
		}
	}

	logger.InfoCtx(ctx, "Transfer advanced",
		zap.String("transferID", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)),
	)
	return row.ToDomain(), nil
}
