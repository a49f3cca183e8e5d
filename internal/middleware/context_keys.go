package middleware

import "github.com/gin-gonic/gin"

// accountNumberKey is the key under which the authenticated principal's account
// number (or operator username) is stored in the request context.
const accountNumberKey = contextKey("accountNumber")

// isOperatorKey marks the principal as the bank operator.
const isOperatorKey = contextKey("isOperator")

// GetAccountNumberFromContext retrieves the authenticated account number from
// the Gin context. It returns the value and a boolean indicating presence.
func GetAccountNumberFromContext(c *gin.Context) (string, bool) {
	val := c.Request.Context().Value(accountNumberKey)
	if val == nil {
		return "", false
	}
	accountNumber, ok := val.(string)
	return accountNumber, ok
}

// IsOperatorFromContext reports whether the authenticated principal is the
// operator. Absence of the claim means a regular customer.
func IsOperatorFromContext(c *gin.Context) bool {
	val := c.Request.Context().Value(isOperatorKey)
	isOperator, ok := val.(bool)
	return ok && isOperator
}
