package snapshot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
)

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) GetByMonth(ctx context.Context, month domain.Month) (*domain.Snapshot, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) List(ctx context.Context) ([]*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListYear(ctx context.Context, year int) ([]*domain.Snapshot, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Months(ctx context.Context) ([]domain.Month, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Month), args.Error(1)
}

func (m *MockSnapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Replace(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Delete(ctx context.Context, month domain.Month) error {
	args := m.Called(ctx, month)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Exists(ctx context.Context, month domain.Month) (bool, error) {
	args := m.Called(ctx, month)
	return args.Bool(0), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCurrencyRepository is a mock implementation of CurrencyRepository for testing
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetByCode(ctx context.Context, code domain.CurrencyCode) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Create(ctx context.Context, currency *domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) Delete(ctx context.Context, code domain.CurrencyCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCurrencyRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRateSource is a mock implementation of RateSource for testing
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context, base domain.CurrencyCode, targets []domain.CurrencyCode, asOf time.Time) (map[domain.CurrencyCode]decimal.Decimal, error) {
	args := m.Called(ctx, base, targets, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.CurrencyCode]decimal.Decimal), args.Error(1)
}

type serviceFixture struct {
	service      *SnapshotService
	snapshotRepo *MockSnapshotRepository
	accountRepo  *MockAccountRepository
	currencyRepo *MockCurrencyRepository
	source       *MockRateSource
}

func newFixture() *serviceFixture {
	snapshotRepo := new(MockSnapshotRepository)
	accountRepo := new(MockAccountRepository)
	currencyRepo := new(MockCurrencyRepository)
	source := new(MockRateSource)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	builder := ratetable.NewBuilder(source, logger)

	return &serviceFixture{
		service:      NewSnapshotService(snapshotRepo, accountRepo, currencyRepo, builder, logger),
		snapshotRepo: snapshotRepo,
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		source:       source,
	}
}

func enabledCurrencies() []*domain.Currency {
	return []*domain.Currency{
		{ID: uuid.New(), Code: "CAD", FlagEmoji: "🇨🇦", Color: "#DC143C", DisplayOrder: 1},
		{ID: uuid.New(), Code: "USD", FlagEmoji: "🇺🇸", Color: "#003366", DisplayOrder: 2},
	}
}

func TestCreateMonth_PinsRatesAndStores(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Setup: two accounts in different currencies
	cadAccount := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}
	usdAccount := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "Chase Savings", AccountType: domain.AccountTypeBank, Currency: "USD"}

	f.snapshotRepo.On("Exists", ctx, month).Return(false, nil)
	f.accountRepo.On("GetByID", ctx, cadAccount.ID).Return(cadAccount, nil)
	f.accountRepo.On("GetByID", ctx, usdAccount.ID).Return(usdAccount, nil)
	f.currencyRepo.On("List", ctx).Return(enabledCurrencies(), nil)

	// Rates fetched for the 1st of the month across enabled currencies
	f.source.On("FetchRates", ctx, domain.CurrencyCode("CAD"), []domain.CurrencyCode{"USD"}, monthStart).
		Return(map[domain.CurrencyCode]decimal.Decimal{"USD": decimal.NewFromFloat(0.74)}, nil)
	f.source.On("FetchRates", ctx, domain.CurrencyCode("USD"), []domain.CurrencyCode{"CAD"}, monthStart).
		Return(map[domain.CurrencyCode]decimal.Decimal{"CAD": decimal.NewFromFloat(1.35)}, nil)

	f.snapshotRepo.On("Create", ctx, mock.MatchedBy(func(snap *domain.Snapshot) bool {
		return snap.Month == month &&
			len(snap.Balances) == 2 &&
			snap.Balances[0].Currency == domain.CurrencyCode("CAD") &&
			snap.Balances[1].Currency == domain.CurrencyCode("USD") &&
			len(snap.Rates.Rates) == 4 // 2 cross + 2 self pairs
	})).Return(nil)

	// Execute
	snap, err := f.service.CreateMonth(ctx, month, []BalanceEntry{
		{AccountID: cadAccount.ID, Amount: decimal.NewFromInt(3500)},
		{AccountID: usdAccount.ID, Amount: decimal.NewFromInt(2200)},
	}, false)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, month, snap.Month)
	assert.Equal(t, monthStart, snap.Rates.AsOf)
	assert.NoError(t, snap.Validate())

	f.snapshotRepo.AssertExpectations(t)
	f.snapshotRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestCreateMonth_ExistingMonthWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	f.snapshotRepo.On("Exists", ctx, month).Return(true, nil)

	// Execute
	_, err := f.service.CreateMonth(ctx, month, []BalanceEntry{
		{AccountID: uuid.New(), Amount: decimal.NewFromInt(100)},
	}, false)

	// Assert: refused before any rates are fetched
	assert.ErrorIs(t, err, domain.ErrSnapshotExists)
	f.source.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.snapshotRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.snapshotRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestCreateMonth_OverwriteReplacesExistingMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	account := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}

	f.snapshotRepo.On("Exists", ctx, month).Return(true, nil)
	f.accountRepo.On("GetByID", ctx, account.ID).Return(account, nil)
	f.currencyRepo.On("List", ctx).Return([]*domain.Currency{
		{ID: uuid.New(), Code: "CAD", DisplayOrder: 1},
	}, nil)
	f.snapshotRepo.On("Replace", ctx, mock.MatchedBy(func(snap *domain.Snapshot) bool {
		return snap.Month == month
	})).Return(nil)

	// Execute: single enabled currency means no fetch at all
	snap, err := f.service.CreateMonth(ctx, month, []BalanceEntry{
		{AccountID: account.ID, Amount: decimal.NewFromInt(4000)},
	}, true)

	// Assert: replaced, never created
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, monthStart, snap.Rates.AsOf)

	f.snapshotRepo.AssertExpectations(t)
	f.snapshotRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.source.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateMonth_RateOutageAbortsSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	account := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}

	f.snapshotRepo.On("Exists", ctx, month).Return(false, nil)
	f.accountRepo.On("GetByID", ctx, account.ID).Return(account, nil)
	f.currencyRepo.On("List", ctx).Return(enabledCurrencies(), nil)
	f.source.On("FetchRates", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: i/o timeout"))

	// Execute
	_, err := f.service.CreateMonth(ctx, month, []BalanceEntry{
		{AccountID: account.ID, Amount: decimal.NewFromInt(3500)},
	}, false)

	// Assert: never pin an empty rate map
	assert.ErrorIs(t, err, domain.ErrRateSourceUnavailable)
	f.snapshotRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.snapshotRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestCreateMonth_AllZeroBalances(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// Execute
	_, err := f.service.CreateMonth(ctx, domain.MonthOf(2025, time.March), []BalanceEntry{
		{AccountID: uuid.New(), Amount: decimal.Zero},
		{AccountID: uuid.New(), Amount: decimal.Zero},
	}, false)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one balance must be non-zero")
	f.snapshotRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestCreateMonth_NoEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.CreateMonth(ctx, domain.MonthOf(2025, time.March), nil, false)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one balance")
}

func TestCreateMonth_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	accountID := uuid.New()

	f.snapshotRepo.On("Exists", ctx, month).Return(false, nil)
	f.accountRepo.On("GetByID", ctx, accountID).Return(nil, domain.ErrNotFound)

	// Execute
	_, err := f.service.CreateMonth(ctx, month, []BalanceEntry{
		{AccountID: accountID, Amount: decimal.NewFromInt(100)},
	}, false)

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.source.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.snapshotRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateMonth_DuplicateAccountEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	accountID := uuid.New()

	f.snapshotRepo.On("Exists", ctx, month).Return(false, nil)

	// Execute: the same account listed twice
	_, err := f.service.CreateMonth(ctx, month, []BalanceEntry{
		{AccountID: accountID, Amount: decimal.NewFromInt(100)},
		{AccountID: accountID, Amount: decimal.NewFromInt(200)},
	}, false)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate balance for account")
}

func TestDelete_LogsAndDelegates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2025, time.March)
	f.snapshotRepo.On("Delete", ctx, month).Return(nil)

	// Execute
	err := f.service.Delete(ctx, month)

	// Assert
	assert.NoError(t, err)
	f.snapshotRepo.AssertExpectations(t)
}

func TestDelete_MissingMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	month := domain.MonthOf(2030, time.January)
	f.snapshotRepo.On("Delete", ctx, month).Return(domain.ErrNotFound)

	err := f.service.Delete(ctx, month)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
