package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mgrist/texlien/internal/auth"
)

// ClaimsKey is the context key for the verified token claims.
const ClaimsKey = "claims"

// Auth creates a middleware that rejects requests without a valid bearer
// token and stores the verified claims in the context.
func Auth(verifier auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c, "Missing bearer token")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims retrieves the verified claims from the Gin context.
// The second return value is false when the request was not authenticated.
func GetClaims(c *gin.Context) (auth.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
