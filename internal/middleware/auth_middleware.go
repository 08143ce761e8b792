package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prathameshmane019/suhani-travels-sub000/pkg/jwt"
)

// PrincipalContextKey is the key used to store the authenticated principal
// in the Gin context.
const PrincipalContextKey = "principal"

// Principal represents the authenticated caller's identity
type Principal struct {
	SubjectID string   `json:"subject_id"`
	Username  string   `json:"username"`
	Role      jwt.Role `json:"role"`
}

// bearerToken extracts the token from the Authorization header.
// Returns empty string when the header is missing or malformed.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// OptionalAuth attaches the principal when a valid token is presented but
// lets anonymous requests through. Booking endpoints use it to record who
// booked without requiring an account.
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			// Invalid token on an optional route is treated as anonymous
			c.Next()
			return
		}

		c.Set(PrincipalContextKey, Principal{
			SubjectID: claims.SubjectID,
			Username:  claims.Username,
			Role:      claims.Role,
		})
		c.Next()
	}
}

// RequireAgent rejects requests that do not carry a valid agent token
func RequireAgent(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required. Expected: Bearer <token>",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired token",
				"code":    "INVALID_TOKEN",
			})
			c.Abort()
			return
		}

		if claims.Role != jwt.RoleAgent {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Agent access required",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Set(PrincipalContextKey, Principal{
			SubjectID: claims.SubjectID,
			Username:  claims.Username,
			Role:      claims.Role,
		})
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the Gin context
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return Principal{}, false
	}

	principal, ok := value.(Principal)
	if !ok {
		return Principal{}, false
	}

	return principal, true
}
