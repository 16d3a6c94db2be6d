package middleware

import "github.com/gin-gonic/gin"

// actingUserKey is the key used to store the acting user's ID in the Gin context.
const actingUserKey = contextKey("actingUserID")

// ActingUserHeader carries the acting user identity resolved by the upstream
// authentication collaborator. This service trusts it as-is; it performs no
// authentication of its own.
const ActingUserHeader = "X-Acting-User"

// ActingUser is a Gin middleware that copies the acting user header into the
// context so handlers can pass it explicitly into every mutating operation.
func ActingUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(ActingUserHeader); userID != "" {
			c.Set(string(actingUserKey), userID)
		}
		c.Next()
	}
}

// GetActingUserFromContext retrieves the acting user ID from the Gin context.
// It returns the ID and a boolean indicating whether it was present.
func GetActingUserFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(actingUserKey))
	if !exists {
		return "", false
	}
	userID, ok := val.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
