package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/growth"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/networth"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/report"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/yoy"
)

// CreateCurrencyRequest defines the data needed to enable a currency
type CreateCurrencyRequest struct {
	Code      string `json:"code" binding:"required,currencycode"`
	FlagEmoji string `json:"flag_emoji" binding:"required"`
	Color     string `json:"color" binding:"required"`
}

// CreateOwnerRequest defines the data needed to add an owner
type CreateOwnerRequest struct {
	Name      string `json:"name" binding:"required"`
	OwnerType string `json:"owner_type" binding:"required,oneof=Individual Joint"`
}

// CreateAccountRequest defines the data needed to add an account
type CreateAccountRequest struct {
	OwnerID     string `json:"owner_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"account_type" binding:"required,oneof=Bank Investment"`
	Currency    string `json:"currency" binding:"required,currencycode"`
}

// UpdateAccountRequest defines the data for editing an account
type UpdateAccountRequest struct {
	OwnerID     string `json:"owner_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"account_type" binding:"required,oneof=Bank Investment"`
	Currency    string `json:"currency" binding:"required,currencycode"`
}

// BalanceEntryRequest is one account's submitted amount
// Amount has no required tag: a zero balance is legitimate input
type BalanceEntryRequest struct {
	AccountID string          `json:"account_id" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
}

// CreateSnapshotRequest defines the data needed to record a month
type CreateSnapshotRequest struct {
	Month     string                `json:"month" binding:"required"`
	Balances  []BalanceEntryRequest `json:"balances" binding:"required,min=1,dive"`
	Overwrite bool                  `json:"overwrite"`
}

// CurrencyResponse defines the data returned for a currency
type CurrencyResponse struct {
	Code         string `json:"code"`
	FlagEmoji    string `json:"flag_emoji"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"display_order"`
}

func toCurrencyResponse(currency *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:         string(currency.Code),
		FlagEmoji:    currency.FlagEmoji,
		Color:        currency.Color,
		DisplayOrder: currency.DisplayOrder,
	}
}

// OwnerResponse defines the data returned for an owner
type OwnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerType string `json:"owner_type"`
}

func toOwnerResponse(owner *domain.Owner) OwnerResponse {
	return OwnerResponse{
		ID:        owner.ID.String(),
		Name:      owner.Name,
		OwnerType: string(owner.OwnerType),
	}
}

// AccountResponse defines the data returned for an account
type AccountResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID.String(),
		OwnerID:     account.OwnerID.String(),
		Name:        account.Name,
		AccountType: string(account.AccountType),
		Currency:    string(account.Currency),
	}
}

// BalanceResponse is one recorded balance inside a snapshot
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
}

// SnapshotResponse defines the data returned for a snapshot
// Rates marshal in the same flat "FROM_TO" form they are pinned in
type SnapshotResponse struct {
	Month     string            `json:"month"`
	Balances  []BalanceResponse `json:"balances"`
	Rates     domain.RateMap    `json:"rates"`
	CreatedAt time.Time         `json:"created_at"`
}

func toSnapshotResponse(snap *domain.Snapshot) SnapshotResponse {
	balances := make([]BalanceResponse, len(snap.Balances))
	for i, b := range snap.Balances {
		balances[i] = BalanceResponse{
			AccountID: b.AccountID.String(),
			Currency:  string(b.Currency),
			Amount:    b.Amount,
		}
	}
	return SnapshotResponse{
		Month:     snap.Month.String(),
		Balances:  balances,
		Rates:     snap.Rates,
		CreatedAt: snap.CreatedAt,
	}
}

// RatesResponse is the rate preview payload; nothing is stored
type RatesResponse struct {
	Date  string         `json:"date"`
	Codes []string       `json:"codes"`
	Rates domain.RateMap `json:"rates"`
}

// DeltaResponse is the change against the previous recorded month
type DeltaResponse struct {
	PreviousMonth string          `json:"previous_month"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	Amount        decimal.Decimal `json:"amount"`
	Percent       decimal.Decimal `json:"percent"`
}

// CurrencyTotalResponse is the latest total expressed in one enabled currency
type CurrencyTotalResponse struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

// AccountLineResponse is one account's row in the dashboard breakdown
type AccountLineResponse struct {
	Owner       string          `json:"owner"`
	Account     string          `json:"account"`
	AccountType string          `json:"account_type"`
	Currency    string          `json:"currency"`
	Native      decimal.Decimal `json:"native_balance"`
	Converted   decimal.Decimal `json:"converted_balance"`
}

// DashboardResponse is the landing view payload
type DashboardResponse struct {
	Month    string                  `json:"month"`
	Currency string                  `json:"currency"`
	Total    decimal.Decimal         `json:"total"`
	Delta    *DeltaResponse          `json:"delta,omitempty"`
	Totals   []CurrencyTotalResponse `json:"totals"`
	Accounts []AccountLineResponse   `json:"accounts"`
	Warnings []string                `json:"warnings"`
}

func toDashboardResponse(d *report.Dashboard) DashboardResponse {
	totals := make([]CurrencyTotalResponse, 0, len(d.Codes))
	for _, code := range d.Codes {
		totals = append(totals, CurrencyTotalResponse{
			Currency: string(code),
			Total:    d.Totals[code],
		})
	}

	accounts := make([]AccountLineResponse, len(d.Accounts))
	for i, line := range d.Accounts {
		accounts[i] = AccountLineResponse{
			Owner:       line.Owner,
			Account:     line.Account,
			AccountType: string(line.AccountType),
			Currency:    string(line.Currency),
			Native:      line.Native,
			Converted:   line.Converted,
		}
	}

	resp := DashboardResponse{
		Month:    d.Month.String(),
		Currency: string(d.Target),
		Total:    d.Total,
		Totals:   totals,
		Accounts: accounts,
		Warnings: emptyIfNil(d.Warnings),
	}

	if d.Previous != nil {
		resp.Delta = &DeltaResponse{
			PreviousMonth: d.Previous.Month.String(),
			PreviousTotal: d.Previous.Total,
			Amount:        d.Delta,
			Percent:       d.DeltaPercent,
		}
	}

	return resp
}

// PointResponse is one month's converted total
type PointResponse struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// NetWorthResponse is the month-by-month history payload
type NetWorthResponse struct {
	Currency string          `json:"currency"`
	Points   []PointResponse `json:"points"`
	Warnings []string        `json:"warnings"`
}

func toNetWorthResponse(target domain.CurrencyCode, points []networth.Point, warnings []string) NetWorthResponse {
	out := make([]PointResponse, len(points))
	for i, p := range points {
		out[i] = PointResponse{Month: p.Month.String(), Total: p.Total}
	}
	return NetWorthResponse{
		Currency: string(target),
		Points:   out,
		Warnings: emptyIfNil(warnings),
	}
}

// GrowthPointResponse is one month's normalized index per currency
type GrowthPointResponse struct {
	Month string                     `json:"month"`
	Index map[string]decimal.Decimal `json:"index"`
}

// GrowthResponse is the normalized growth payload; every series starts at 100
type GrowthResponse struct {
	Baseline   string                `json:"baseline"`
	Currencies []string              `json:"currencies"`
	Series     []GrowthPointResponse `json:"series"`
}

func toGrowthResponse(series []growth.PeriodIndex, codes []domain.CurrencyCode) GrowthResponse {
	currencies := make([]string, len(codes))
	for i, code := range codes {
		currencies[i] = string(code)
	}

	out := make([]GrowthPointResponse, len(series))
	for i, period := range series {
		index := make(map[string]decimal.Decimal, len(period.Index))
		for code, value := range period.Index {
			index[string(code)] = value
		}
		out[i] = GrowthPointResponse{Month: period.Month.String(), Index: index}
	}

	baseline := ""
	if len(series) > 0 {
		baseline = series[0].Month.String()
	}

	return GrowthResponse{Baseline: baseline, Currencies: currencies, Series: out}
}

// YoyMonthResponse is one calendar month's total inside a year
type YoyMonthResponse struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// YoyYearResponse is one year's recorded months
type YoyYearResponse struct {
	Year   int                `json:"year"`
	Months []YoyMonthResponse `json:"months"`
}

// YoyResponse is the year-over-year payload for overlaying years
type YoyResponse struct {
	Currency string            `json:"currency"`
	Years    []YoyYearResponse `json:"years"`
	Warnings []string          `json:"warnings"`
}

func toYoyResponse(target domain.CurrencyCode, grouped map[int][]yoy.MonthValue, warnings []string) YoyResponse {
	years := make([]YoyYearResponse, 0, len(grouped))
	for _, year := range yoy.Years(grouped) {
		months := make([]YoyMonthResponse, len(grouped[year]))
		for i, mv := range grouped[year] {
			months[i] = YoyMonthResponse{Month: int(mv.Month), Total: mv.Total}
		}
		years = append(years, YoyYearResponse{Year: year, Months: months})
	}
	return YoyResponse{
		Currency: string(target),
		Years:    years,
		Warnings: emptyIfNil(warnings),
	}
}

// emptyIfNil keeps warning arrays as [] rather than null in payloads
func emptyIfNil(warnings []string) []string {
	if warnings == nil {
		return []string{}
	}
	return warnings
}
