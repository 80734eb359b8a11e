package service

import (
	"context"
	"time"

	"newsteps/internal/model"
	"newsteps/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockShoeRepository is a mock implementation of ShoeRepository.
type MockShoeRepository struct {
	mock.Mock
}

func (m *MockShoeRepository) Create(ctx context.Context, shoe *model.Shoe) error {
	args := m.Called(ctx, shoe)
	return args.Error(0)
}

func (m *MockShoeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shoe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shoe), args.Error(1)
}

func (m *MockShoeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Shoe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shoe), args.Error(1)
}

func (m *MockShoeRepository) List(ctx context.Context, filter model.ShoeFilter) ([]model.Shoe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shoe), args.Error(1)
}

func (m *MockShoeRepository) Update(ctx context.Context, id uuid.UUID, patch *model.ShoePatch, updatedAt time.Time) (*model.Shoe, error) {
	args := m.Called(ctx, id, patch, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shoe), args.Error(1)
}

func (m *MockShoeRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockShoeRepository) Allocate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockCounterRepository is a mock implementation of CounterRepository.
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRequestRepository) Create(ctx context.Context, tx pgx.Tx, req *model.Request) error {
	args := m.Called(ctx, tx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Request, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, status model.Status) ([]model.Request, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestRepository) Lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

// MockDonationRepository is a mock implementation of DonationRepository.
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDonationRepository) Create(ctx context.Context, tx pgx.Tx, donation *model.Donation) error {
	args := m.Called(ctx, tx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) List(ctx context.Context, filter model.DonationFilter) ([]model.Donation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationRepository) Lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.DonationKind, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(model.DonationKind), args.Error(1)
}

func (m *MockDonationRepository) SetAdminNotes(ctx context.Context, tx pgx.Tx, id uuid.UUID, notes string) error {
	args := m.Called(ctx, tx, id, notes)
	return args.Error(0)
}

// MockStatusRepository is a mock implementation of StatusRepository.
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) Append(ctx context.Context, db repository.DBTX, kind model.EntityKind, entityID uuid.UUID, entry model.StatusEntry) error {
	args := m.Called(ctx, db, kind, entityID, entry)
	return args.Error(0)
}

func (m *MockStatusRepository) History(ctx context.Context, db repository.DBTX, kind model.EntityKind, entityID uuid.UUID) (model.StatusHistory, error) {
	args := m.Called(ctx, db, kind, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.StatusHistory), args.Error(1)
}

func (m *MockStatusRepository) Histories(ctx context.Context, kind model.EntityKind, entityIDs []uuid.UUID) (map[uuid.UUID]model.StatusHistory, error) {
	args := m.Called(ctx, kind, entityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]model.StatusHistory), args.Error(1)
}

// MockSender is a mock implementation of notify.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
