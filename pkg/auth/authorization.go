package auth

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"

	"github.com/gin-gonic/gin"
)

// Role is the access level carried in the "role" custom claim.
type Role int64

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

func AuthMiddleware(firebaseApp *firebase.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}
		idToken := authHeader[len("Bearer "):]

		ctx := context.Background()
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize Firebase Auth"})
			c.Abort()
			return
		}

		token, err := authClient.VerifyIDToken(ctx, idToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token"})
			c.Abort()
			return
		}

		// Attach token to the context
		c.Set("token", token)

		c.Next()
	}
}

// MustToken returns the verified token attached by AuthMiddleware.
func MustToken(c *gin.Context) *fbauth.Token {
	return c.MustGet("token").(*fbauth.Token)
}

// RequireRole allows the request through when the verified token carries
// one of the given roles, or when allowSameUser is set and the token UID
// matches the uid/id route parameter.
func RequireRole(allowSameUser bool, roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := MustToken(c)

		if allowSameUser {
			uid := c.Param("uid")
			if uid == "" {
				uid = c.Param("id")
			}
			if uid != "" && uid == token.UID {
				c.Next()
				return
			}
		}

		if claim, ok := token.Claims["role"]; ok {
			if role, ok := claim.(float64); ok {
				for _, allowed := range roles {
					if Role(role) == allowed {
						c.Next()
						return
					}
				}
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		c.Abort()
	}
}
