package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/dto"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler handles the authenticated customer surface: balances,
// money movement and transaction history for the caller's own account.
type customerHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
	fraudService   portssvc.FraudSvcFacade
}

func newCustomerHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade, fs portssvc.FraudSvcFacade) *customerHandler {
	return &customerHandler{
		accountService: as,
		ledgerService:  ls,
		fraudService:   fs,
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCustomerHandler(services.Account, services.Ledger, services.Fraud)

	account := rg.Group("/account")
	{
		account.GET("", h.getOwnAccount)
		account.POST("/deposit", h.deposit)
		account.POST("/withdraw-to-wallet", h.withdrawToWallet)
		account.POST("/transfer", h.transfer)
		account.GET("/transactions", h.listTransactions)
		account.GET("/flags", h.getFlags)
	}
}

func (h *customerHandler) getOwnAccount(c *gin.Context) {
	accountNumber, ok := middleware.GetAccountNumberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), accountNumber)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(*account))
}

func (h *customerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountNumber, ok := middleware.GetAccountNumberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.Deposit(c.Request.Context(), accountNumber, req.Amount, req.Details)
	if err != nil {
		respondError(c, err, "Failed to process deposit")
		return
	}

	logger.Info("Deposit processed", slog.String("transaction_id", txn.TransactionID), slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, txn)
}

func (h *customerHandler) withdrawToWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountNumber, ok := middleware.GetAccountNumberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.WithdrawToWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for wallet withdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.WithdrawToWallet(c.Request.Context(), accountNumber, req.Amount)
	if err != nil {
		respondError(c, err, "Failed to process wallet withdrawal")
		return
	}

	logger.Info("Wallet withdrawal processed", slog.String("transaction_id", txn.TransactionID), slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, txn)
}

func (h *customerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountNumber, ok := middleware.GetAccountNumberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	outTxn, _, err := h.ledgerService.Transfer(c.Request.Context(), accountNumber, req.ToAccount, req.Amount, req.Details)
	if err != nil {
		respondError(c, err, "Failed to process transfer")
		return
	}

	logger.Info("Transfer processed",
		slog.String("transaction_id", outTxn.TransactionID),
		slog.String("to_account", req.ToAccount),
		slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusCreated, outTxn)
}

func (h *customerHandler) listTransactions(c *gin.Context) {
	accountNumber, ok := middleware.GetAccountNumberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	from, err := parseDateQuery(c.Query("from"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateQuery(c.Query("to"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns, err := h.ledgerService.History(c.Request.Context(), accountNumber, from, to)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

func (h *customerHandler) getFlags(c *gin.Context) {
	accountNumber, ok := middleware.GetAccountNumberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), accountNumber)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	txnFlags, err := h.fraudService.ScoreAccount(c.Request.Context(), accountNumber)
	if err != nil {
		respondError(c, err, "Failed to score account")
		return
	}
	loginFlags, err := h.fraudService.ScoreIdentifierLogins(c.Request.Context(), account.Phone)
	if err != nil {
		respondError(c, err, "Failed to score login attempts")
		return
	}

	c.JSON(http.StatusOK, dto.FlagsResponse{TransactionFlags: txnFlags, LoginFlags: loginFlags})
}

// parseDateQuery accepts either RFC 3339 timestamps or plain dates. A plain
// date used as an upper bound is widened to the end of that day.
func parseDateQuery(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected RFC 3339 or YYYY-MM-DD", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
