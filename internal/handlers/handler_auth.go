package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/dto"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles the public login endpoints.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes registers the public authentication routes. The routes
// are rate limited per client IP on top of the brute-force detector.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, rateLimit gin.HandlerFunc) {
	h := newAuthHandler(services.Auth)

	auth := r.Group("/auth", rateLimit)
	{
		auth.POST("/login", h.customerLogin)
		auth.POST("/admin/login", h.operatorLogin)
	}
}

func (h *authHandler) customerLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for customer login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, account, err := h.authService.LoginCustomer(c.Request.Context(), req.Phone, req.PIN)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	logger.Info("Customer login succeeded", slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, AccountNumber: account.AccountNumber})
}

func (h *authHandler) operatorLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.OperatorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for operator login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, err := h.authService.LoginOperator(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	logger.Info("Operator login succeeded", slog.String("username", req.Username))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
