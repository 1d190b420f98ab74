package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	chain := []TransferStatus{
		TransferStatusAcquired,
		TransferStatusListed,
		TransferStatusSold,
		TransferStatusTransferPending,
		TransferStatusTransferred,
		TransferStatusCompleted,
	}

	for i, from := range chain {
		for j, to := range chain {
			assert.Equal(t, j == i+1, CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	_, ok := NextTransferStatus(TransferStatusCompleted)
	assert.False(t, ok)
}

func TestValidateTransition(t *testing.T) {
	buyer := "Jordan Example"
	empty := ""
	price := decimal.NewFromInt(250)
	zero := decimal.Zero
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		from    TransferStatus
		to      TransferStatus
		details TransitionDetails
		wantErr bool
	}{
		{name: "list without price", from: TransferStatusAcquired, to: TransferStatusListed},
		{name: "list with price", from: TransferStatusAcquired, to: TransferStatusListed, details: TransitionDetails{ListingPrice: &price}},
		{name: "list with negative price", from: TransferStatusAcquired, to: TransferStatusListed, details: TransitionDetails{ListingPrice: &negative}, wantErr: true},
		{name: "sold backwards to listed", from: TransferStatusSold, to: TransferStatusListed, wantErr: true},
		{name: "skip a stage", from: TransferStatusAcquired, to: TransferStatusSold, details: TransitionDetails{BuyerName: &buyer, SalePrice: &price}, wantErr: true},
		{name: "sold with buyer and price", from: TransferStatusListed, to: TransferStatusSold, details: TransitionDetails{BuyerName: &buyer, SalePrice: &price}},
		{name: "sold without buyer", from: TransferStatusListed, to: TransferStatusSold, details: TransitionDetails{SalePrice: &price}, wantErr: true},
		{name: "sold with empty buyer", from: TransferStatusListed, to: TransferStatusSold, details: TransitionDetails{BuyerName: &empty, SalePrice: &price}, wantErr: true},
		{name: "sold with zero price", from: TransferStatusListed, to: TransferStatusSold, details: TransitionDetails{BuyerName: &buyer, SalePrice: &zero}, wantErr: true},
		{name: "unknown target", from: TransferStatusListed, to: TransferStatus("REFUNDED"), wantErr: true},
		{name: "completed is terminal", from: TransferStatusCompleted, to: TransferStatusAcquired, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to, tt.details)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			assert.NoError(t, err)
		})
	}
}
