package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

func TestCreateSnapshot_PinsRatesForMonth(t *testing.T) {
	ts := newTestServer("")
	cadAccount := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}
	usdAccount := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "Chase Savings", AccountType: domain.AccountTypeBank, Currency: "USD"}
	monthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	ts.snapshots.On("Exists", mock.Anything, domain.Month{Year: 2025, Month: time.March}).Return(false, nil)
	ts.accounts.On("GetByID", mock.Anything, cadAccount.ID).Return(cadAccount, nil)
	ts.accounts.On("GetByID", mock.Anything, usdAccount.ID).Return(usdAccount, nil)
	ts.currencies.On("List", mock.Anything).Return(testCurrencies(), nil)
	ts.source.On("FetchRates", mock.Anything, domain.CurrencyCode("CAD"), []domain.CurrencyCode{"USD"}, monthStart).
		Return(map[domain.CurrencyCode]decimal.Decimal{"USD": decimal.NewFromFloat(0.74)}, nil)
	ts.source.On("FetchRates", mock.Anything, domain.CurrencyCode("USD"), []domain.CurrencyCode{"CAD"}, monthStart).
		Return(map[domain.CurrencyCode]decimal.Decimal{"CAD": decimal.NewFromFloat(1.35)}, nil)

	var stored *domain.Snapshot
	ts.snapshots.On("Create", mock.Anything, mock.AnythingOfType("*domain.Snapshot")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Snapshot)
		}).
		Return(nil)

	// Execute
	body := fmt.Sprintf(`{"month":"2025-03","balances":[{"account_id":%q,"amount":3500},{"account_id":%q,"amount":2200.50}]}`,
		cadAccount.ID, usdAccount.ID)
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	// Assert response
	require.Equal(t, http.StatusCreated, w.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03", resp.Month)
	require.Len(t, resp.Balances, 2)
	assert.Equal(t, "CAD", resp.Balances[0].Currency)
	assert.Equal(t, "USD", resp.Balances[1].Currency)
	assert.True(t, resp.Balances[1].Amount.Equal(decimal.RequireFromString("2200.50")))

	rate, ok := resp.Rates.Rate("CAD", "USD")
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.74)))

	// Assert the stored snapshot pinned rates effective on the 1st
	require.NotNil(t, stored)
	assert.Equal(t, monthStart, stored.Rates.AsOf)
	assert.Len(t, stored.Rates.Rates, 4) // two cross rates plus two self pairs
}

func TestCreateSnapshot_DuplicateMonth(t *testing.T) {
	ts := newTestServer("")
	ts.snapshots.On("Exists", mock.Anything, domain.Month{Year: 2025, Month: time.March}).Return(true, nil)

	body := fmt.Sprintf(`{"month":"2025-03","balances":[{"account_id":%q,"amount":100}]}`, uuid.New())
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "2025-03")
	ts.source.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSnapshot_OverwriteReplaces(t *testing.T) {
	ts := newTestServer("")
	account := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}

	ts.snapshots.On("Exists", mock.Anything, domain.Month{Year: 2025, Month: time.March}).Return(true, nil)
	ts.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	ts.currencies.On("List", mock.Anything).Return(testCurrencies(), nil)
	ts.source.On("FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(map[domain.CurrencyCode]decimal.Decimal{"USD": decimal.NewFromFloat(0.74)}, nil)
	ts.snapshots.On("Replace", mock.Anything, mock.AnythingOfType("*domain.Snapshot")).Return(nil)

	body := fmt.Sprintf(`{"month":"2025-03","balances":[{"account_id":%q,"amount":4200}],"overwrite":true}`, account.ID)
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	ts.snapshots.AssertCalled(t, "Replace", mock.Anything, mock.AnythingOfType("*domain.Snapshot"))
	ts.snapshots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateSnapshot_RateSourceDown(t *testing.T) {
	ts := newTestServer("")
	account := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}

	ts.snapshots.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	ts.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	ts.currencies.On("List", mock.Anything).Return(testCurrencies(), nil)
	ts.source.On("FetchRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("dial tcp: connection refused"))

	body := fmt.Sprintf(`{"month":"2025-03","balances":[{"account_id":%q,"amount":4200}]}`, account.ID)
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	// A snapshot is never pinned to an empty rate map
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "exchange rate source is unavailable")
	ts.snapshots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateSnapshot_AllZeroBalances(t *testing.T) {
	ts := newTestServer("")

	body := fmt.Sprintf(`{"month":"2025-03","balances":[{"account_id":%q,"amount":0},{"account_id":%q,"amount":0}]}`,
		uuid.New(), uuid.New())
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least one balance must be non-zero")
}

func TestCreateSnapshot_EmptyBalances(t *testing.T) {
	ts := newTestServer("")

	w := ts.request(http.MethodPost, "/api/v1/snapshots", `{"month":"2025-03","balances":[]}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ts.snapshots.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestCreateSnapshot_DuplicateAccountEntry(t *testing.T) {
	ts := newTestServer("")
	account := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Name: "TD Chequing", AccountType: domain.AccountTypeBank, Currency: "CAD"}
	ts.snapshots.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	ts.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)

	body := fmt.Sprintf(`{"month":"2025-03","balances":[{"account_id":%q,"amount":100},{"account_id":%q,"amount":200}]}`,
		account.ID, account.ID)
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate balance")
}

func TestCreateSnapshot_BadMonthFormat(t *testing.T) {
	ts := newTestServer("")

	body := fmt.Sprintf(`{"month":"March 2025","balances":[{"account_id":%q,"amount":100}]}`, uuid.New())
	w := ts.request(http.MethodPost, "/api/v1/snapshots", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM")
}

func TestGetSnapshot_ReturnsStoredMonth(t *testing.T) {
	ts := newTestServer("")
	month := domain.Month{Year: 2025, Month: time.February}
	rates := domain.NewRateMap(month.Date())
	rates.Rates[domain.CurrencyPair{From: "CAD", To: "USD"}] = decimal.NewFromFloat(0.75)
	rates.Rates[domain.CurrencyPair{From: "CAD", To: "CAD"}] = decimal.NewFromInt(1)
	rates.Rates[domain.CurrencyPair{From: "USD", To: "USD"}] = decimal.NewFromInt(1)
	snap := &domain.Snapshot{
		ID:    uuid.New(),
		Month: month,
		Balances: []domain.Balance{
			{AccountID: uuid.New(), Currency: "CAD", Amount: decimal.NewFromInt(3500)},
		},
		Rates:     rates,
		CreatedAt: time.Now(),
	}
	ts.snapshots.On("GetByMonth", mock.Anything, month).Return(snap, nil)

	w := ts.request(http.MethodGet, "/api/v1/snapshots/2025-02", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-02", resp.Month)
	require.Len(t, resp.Balances, 1)
	rate, ok := resp.Rates.Rate("CAD", "USD")
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.75)))
}

func TestGetSnapshot_Unknown(t *testing.T) {
	ts := newTestServer("")
	ts.snapshots.On("GetByMonth", mock.Anything, domain.Month{Year: 2030, Month: time.January}).Return(nil, domain.ErrNotFound)

	w := ts.request(http.MethodGet, "/api/v1/snapshots/2030-01", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSnapshot_BadMonthFormat(t *testing.T) {
	ts := newTestServer("")

	w := ts.request(http.MethodGet, "/api/v1/snapshots/Feb-2025", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ts.snapshots.AssertNotCalled(t, "GetByMonth", mock.Anything, mock.Anything)
}

func TestListMonths_NewestFirst(t *testing.T) {
	ts := newTestServer("")
	ts.snapshots.On("Months", mock.Anything).Return([]domain.Month{
		{Year: 2025, Month: time.February},
		{Year: 2025, Month: time.January},
		{Year: 2024, Month: time.December},
	}, nil)

	w := ts.request(http.MethodGet, "/api/v1/snapshots/months", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"months":["2025-02","2025-01","2024-12"]}`, w.Body.String())
}

func TestListSnapshots_FilterByYear(t *testing.T) {
	ts := newTestServer("")
	snap := &domain.Snapshot{
		ID:       uuid.New(),
		Month:    domain.Month{Year: 2024, Month: time.June},
		Balances: []domain.Balance{{AccountID: uuid.New(), Currency: "CAD", Amount: decimal.NewFromInt(100)}},
		Rates:    domain.NewRateMap(time.Time{}),
	}
	ts.snapshots.On("ListYear", mock.Anything, 2024).Return([]*domain.Snapshot{snap}, nil)

	w := ts.request(http.MethodGet, "/api/v1/snapshots?year=2024", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp []SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2024-06", resp[0].Month)
	ts.snapshots.AssertNotCalled(t, "List", mock.Anything)
}

func TestListSnapshots_BadYear(t *testing.T) {
	ts := newTestServer("")

	w := ts.request(http.MethodGet, "/api/v1/snapshots?year=twenty24", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSnapshot_RemovesMonth(t *testing.T) {
	ts := newTestServer("")
	month := domain.Month{Year: 2025, Month: time.January}
	ts.snapshots.On("Delete", mock.Anything, month).Return(nil)

	w := ts.request(http.MethodDelete, "/api/v1/snapshots/2025-01", "", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	ts.snapshots.AssertCalled(t, "Delete", mock.Anything, month)
}

func TestDeleteSnapshot_Unknown(t *testing.T) {
	ts := newTestServer("")
	ts.snapshots.On("Delete", mock.Anything, mock.Anything).Return(domain.ErrNotFound)

	w := ts.request(http.MethodDelete, "/api/v1/snapshots/2030-01", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
