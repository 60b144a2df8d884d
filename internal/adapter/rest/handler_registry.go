package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/registry"
)

// currencyHandler handles HTTP requests for the enabled-currency registry
type currencyHandler struct {
	currencies *registry.CurrencyService
}

func registerCurrencyRoutes(rg *gin.RouterGroup, currencies *registry.CurrencyService) {
	h := &currencyHandler{currencies: currencies}

	group := rg.Group("/currencies")
	{
		group.GET("", h.listCurrencies)
		group.POST("", h.createCurrency)
		group.DELETE("/:code", h.deleteCurrency)
	}
}

func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencies.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]CurrencyResponse, len(currencies))
	for i, currency := range currencies {
		out[i] = toCurrencyResponse(currency)
	}
	c.JSON(http.StatusOK, out)
}

func (h *currencyHandler) createCurrency(c *gin.Context) {
	var req CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	currency, err := h.currencies.Add(c.Request.Context(), domain.CurrencyCode(strings.ToUpper(req.Code)), req.FlagEmoji, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("currency enabled", slog.String("code", string(currency.Code)))
	c.JSON(http.StatusCreated, toCurrencyResponse(currency))
}

func (h *currencyHandler) deleteCurrency(c *gin.Context) {
	code := domain.CurrencyCode(strings.ToUpper(c.Param("code")))
	if !code.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency code must be 3 uppercase letters"})
		return
	}

	if err := h.currencies.Remove(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("currency disabled", slog.String("code", string(code)))
	c.Status(http.StatusNoContent)
}

// ownerHandler handles HTTP requests for owners
type ownerHandler struct {
	owners *registry.OwnerService
}

func registerOwnerRoutes(rg *gin.RouterGroup, owners *registry.OwnerService) {
	h := &ownerHandler{owners: owners}

	group := rg.Group("/owners")
	{
		group.GET("", h.listOwners)
		group.POST("", h.createOwner)
	}
}

func (h *ownerHandler) listOwners(c *gin.Context) {
	owners, err := h.owners.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]OwnerResponse, len(owners))
	for i, owner := range owners {
		out[i] = toOwnerResponse(owner)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ownerHandler) createOwner(c *gin.Context) {
	var req CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	owner, err := h.owners.Add(c.Request.Context(), req.Name, domain.OwnerType(req.OwnerType))
	if err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("owner added", slog.String("name", owner.Name))
	c.JSON(http.StatusCreated, toOwnerResponse(owner))
}

// accountHandler handles HTTP requests for accounts
type accountHandler struct {
	accounts *registry.AccountService
}

func registerAccountRoutes(rg *gin.RouterGroup, accounts *registry.AccountService) {
	h := &accountHandler{accounts: accounts}

	group := rg.Group("/accounts")
	{
		group.GET("", h.listAccounts)
		group.POST("", h.createAccount)
		group.PUT("/:id", h.updateAccount)
		group.DELETE("/:id", h.deleteAccount)
	}
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = toAccountResponse(account)
	}
	c.JSON(http.StatusOK, out)
}

func (h *accountHandler) createAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id must be a valid UUID"})
		return
	}

	account, err := h.accounts.Add(c.Request.Context(), ownerID, req.Name, domain.AccountType(req.AccountType), domain.CurrencyCode(strings.ToUpper(req.Currency)))
	if err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("account added", slog.String("name", account.Name))
	c.JSON(http.StatusCreated, toAccountResponse(account))
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account id must be a valid UUID"})
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id must be a valid UUID"})
		return
	}

	account := &domain.Account{
		ID:          id,
		OwnerID:     ownerID,
		Name:        req.Name,
		AccountType: domain.AccountType(req.AccountType),
		Currency:    domain.CurrencyCode(strings.ToUpper(req.Currency)),
	}
	if err := h.accounts.Update(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account id must be a valid UUID"})
		return
	}

	if err := h.accounts.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("account removed", slog.String("id", id.String()))
	c.Status(http.StatusNoContent)
}
