package middleware

import "github.com/gin-gonic/gin"

// operatorIDKey is the key used to store the authenticated operator's ID.
const operatorIDKey = contextKey("operatorID")

// GetOperatorIDFromContext retrieves the authenticated operator ID from the
// Gin context, checking the request context as well.
func GetOperatorIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(operatorIDKey)); exists {
		if operatorID, ok := v.(string); ok {
			return operatorID, true
		}
		return "", false
	}
	if v := c.Request.Context().Value(operatorIDKey); v != nil {
		if operatorID, ok := v.(string); ok {
			return operatorID, true
		}
	}
	return "", false
}
