package transfer_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/mocks"
	"github.com/feral-file/ff-acquirer/internal/store"
	"github.com/feral-file/ff-acquirer/internal/store/schema"
	"github.com/feral-file/ff-acquirer/internal/transfer"
)

const transferID = "0b9f9d4e-2a6c-4c1e-9b0e-6a1d2f3c4b5a"

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func row(status domain.TransferStatus) *schema.Transfer {
	return &schema.Transfer{
		ID:               transferID,
		IdentityID:       "identity-1",
		Platform:         domain.PlatformResy,
		VenueRef:         "carbone",
		ConfirmationCode: "RESY-123",
		ReservationTime:  time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC),
		PartySize:        2,
		Status:           status,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	input := store.CreateTransferInput{
		IdentityID:       "identity-1",
		Platform:         domain.PlatformResy,
		VenueRef:         "carbone",
		ConfirmationCode: "RESY-123",
		PartySize:        2,
	}
	mockStore.EXPECT().CreateTransfer(gomock.Any(), input).Return(row(domain.TransferStatusAcquired), nil)

	got, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusAcquired, got.Status)
	assert.Equal(t, "RESY-123", got.ConfirmationCode)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	mockStore.EXPECT().GetTransferByID(gomock.Any(), "missing").Return(nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, transfer.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	status := domain.TransferStatusListed
	mockStore.EXPECT().
		ListTransfers(gomock.Any(), store.TransferFilter{Status: &status, Limit: transfer.MAX_LIST_LIMIT, Offset: 0}).
		Return([]*schema.Transfer{row(domain.TransferStatusListed)}, nil)

	got, err := svc.List(context.Background(), &status, 1000, -5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	bogus := domain.TransferStatus("LOST")
	_, err = svc.List(context.Background(), &bogus, 10, 0)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestService_Advance_FullLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)
	ctx := context.Background()

	steps := []struct {
		from    domain.TransferStatus
		to      domain.TransferStatus
		details domain.TransitionDetails
	}{
		{domain.TransferStatusAcquired, domain.TransferStatusListed, domain.TransitionDetails{ListingPrice: ptr(decimal.NewFromInt(250))}},
		{domain.TransferStatusListed, domain.TransferStatusSold, domain.TransitionDetails{BuyerName: ptr("Ada"), SalePrice: ptr(decimal.NewFromInt(300))}},
		{domain.TransferStatusSold, domain.TransferStatusTransferPending, domain.TransitionDetails{TransferMethod: ptr("name_change")}},
		{domain.TransferStatusTransferPending, domain.TransferStatusTransferred, domain.TransitionDetails{}},
		{domain.TransferStatusTransferred, domain.TransferStatusCompleted, domain.TransitionDetails{}},
	}

	for _, step := range steps {
		mockStore.EXPECT().GetTransferByID(gomock.Any(), transferID).Return(row(step.from), nil)
		mockStore.EXPECT().
			UpdateTransferStatus(gomock.Any(), store.UpdateTransferStatusInput{ID: transferID, From: step.from, To: step.to, Details: step.details}).
			Return(row(step.to), nil)

		got, err := svc.Advance(ctx, transferID, step.to, step.details)
		require.NoError(t, err, "advance %s -> %s", step.from, step.to)
		assert.Equal(t, step.to, got.Status)
	}
}

func TestService_Advance_SoldBackToListed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	mockStore.EXPECT().GetTransferByID(gomock.Any(), transferID).Return(row(domain.TransferStatusSold), nil)

	got, err := svc.Advance(context.Background(), transferID, domain.TransferStatusListed, domain.TransitionDetails{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.ErrorKindInvalidTransition, domain.KindOf(err))
	require.NotNil(t, got)
	assert.Equal(t, domain.TransferStatusSold, got.Status)
}

func TestService_Advance_SoldRequiresBuyerAndPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	mockStore.EXPECT().GetTransferByID(gomock.Any(), transferID).Return(row(domain.TransferStatusListed), nil).Times(2)

	_, err := svc.Advance(context.Background(), transferID, domain.TransferStatusSold, domain.TransitionDetails{SalePrice: ptr(decimal.NewFromInt(10))})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Advance(context.Background(), transferID, domain.TransferStatusSold, domain.TransitionDetails{BuyerName: ptr("Ada")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestService_Advance_ConcurrentWriterWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	mockStore.EXPECT().GetTransferByID(gomock.Any(), transferID).Return(row(domain.TransferStatusAcquired), nil)
	mockStore.EXPECT().UpdateTransferStatus(gomock.Any(), gomock.Any()).
		Return(row(domain.TransferStatusListed), store.ErrTransferStateChanged)

	got, err := svc.Advance(context.Background(), transferID, domain.TransferStatusListed, domain.TransitionDetails{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, store.ErrTransferStateChanged)
	require.NotNil(t, got)
	assert.Equal(t, domain.TransferStatusListed, got.Status)
}

func TestService_Advance_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	svc := transfer.NewService(mockStore)

	mockStore.EXPECT().GetTransferByID(gomock.Any(), transferID).Return(row(domain.TransferStatusAcquired), nil)
	mockStore.EXPECT().UpdateTransferStatus(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := svc.Advance(context.Background(), transferID, domain.TransferStatusListed, domain.TransitionDetails{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidTransition)
}
