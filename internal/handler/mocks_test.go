package handler

import (
	"context"

	"newsteps/internal/model"
	"newsteps/internal/settings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockShoeService is a mock implementation of ShoeService.
type MockShoeService struct {
	mock.Mock
}

func (m *MockShoeService) Create(ctx context.Context, input *model.ShoeInput) (*model.Shoe, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shoe), args.Error(1)
}

func (m *MockShoeService) GetByID(ctx context.Context, id uuid.UUID) (*model.Shoe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shoe), args.Error(1)
}

func (m *MockShoeService) List(ctx context.Context, filter model.ShoeFilter) ([]model.Shoe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shoe), args.Error(1)
}

func (m *MockShoeService) Update(ctx context.Context, id uuid.UUID, patch *model.ShoePatch) (*model.Shoe, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shoe), args.Error(1)
}

func (m *MockShoeService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRequestService is a mock implementation of RequestService.
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Submit(ctx context.Context, identity model.Identity, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmitResponse), args.Error(1)
}

func (m *MockRequestService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Request, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestService) List(ctx context.Context, status model.Status) ([]model.Request, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestService) UpdateStatus(ctx context.Context, update *model.StatusUpdate) (*model.Request, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

// MockDonationService is a mock implementation of DonationService.
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) SubmitShoeDonation(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) SubmitMoneyDonation(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) List(ctx context.Context, filter model.DonationFilter) ([]model.Donation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationService) UpdateStatus(ctx context.Context, kind model.DonationKind, update *model.StatusUpdate) (*model.Donation, error) {
	args := m.Called(ctx, kind, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

// MockSettingsProvider is a mock implementation of SettingsProvider.
type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) Current() *settings.Settings {
	args := m.Called()
	return args.Get(0).(*settings.Settings)
}

func (m *MockSettingsProvider) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
