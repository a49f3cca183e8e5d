package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/dto"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler handles the operator surface: account administration, fraud
// alert review and bank-wide reporting.
type adminHandler struct {
	accountService   portssvc.AccountSvcFacade
	fraudService     portssvc.FraudSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

func newAdminHandler(as portssvc.AccountSvcFacade, fs portssvc.FraudSvcFacade, rs portssvc.ReportingSvcFacade) *adminHandler {
	return &adminHandler{
		accountService:   as,
		fraudService:     fs,
		reportingService: rs,
	}
}

func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAdminHandler(services.Account, services.Fraud, services.Reporting)

	admin := rg.Group("/admin", middleware.RequireOperator())
	{
		admin.POST("/accounts", h.createAccount)
		admin.GET("/accounts", h.listAccounts)
		admin.GET("/accounts/:accountNumber", h.getAccount)
		admin.DELETE("/accounts/:accountNumber", h.deleteAccount)
		admin.GET("/accounts/:accountNumber/score", h.scoreAccount)
		admin.GET("/alerts", h.listAlerts)
		admin.PATCH("/alerts/:alertID", h.resolveAlert)
		admin.GET("/summary", h.summary)
		admin.GET("/reconcile", h.reconcile)
	}
}

func (h *adminHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for account creation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(*account))
}

func (h *adminHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = dto.ToAccountResponse(account)
	}
	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

func (h *adminHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(*account))
}

func (h *adminHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountNumber); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted", slog.String("account_number", accountNumber))
	c.Status(http.StatusNoContent)
}

// scoreAccount re-runs the anomaly detector over the account's full history
// without persisting alerts, for operator investigation.
func (h *adminHandler) scoreAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

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

func (h *adminHandler) listAlerts(c *gin.Context) {
	onlyUnresolved := c.Query("resolved") == "false"

	alerts, err := h.fraudService.ListAlerts(c.Request.Context(), onlyUnresolved)
	if err != nil {
		respondError(c, err, "Failed to list alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (h *adminHandler) resolveAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	alertID := c.Param("alertID")

	var req dto.ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for alert resolution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.fraudService.ResolveAlert(c.Request.Context(), alertID, *req.Resolved); err != nil {
		respondError(c, err, "Failed to update alert")
		return
	}

	logger.Info("Alert resolution updated", slog.String("alert_id", alertID), slog.Bool("resolved", *req.Resolved))
	c.Status(http.StatusNoContent)
}

func (h *adminHandler) summary(c *gin.Context) {
	summary, err := h.reportingService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute bank summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *adminHandler) reconcile(c *gin.Context) {
	report, err := h.reportingService.Reconcile(c.Request.Context())
	if err != nil && report == nil {
		respondError(c, err, "Failed to run reconciliation")
		return
	}
	if err != nil {
		// Mismatches found: return the report with the inconsistency status.
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Reconciliation found mismatches", slog.Int("count", len(report.Mismatches)))
		c.JSON(http.StatusInternalServerError, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
