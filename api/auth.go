package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// authMiddleware validates a bearer token when a secret is configured.
// With no secret the route is open, which is how local runs and tests
// operate.
func (m ApiHandler) authMiddleware(c *gin.Context) {
	if m.JwtSecret == "" {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		returnErrorJsonCode(fmt.Errorf("missing bearer token"), c, 401)
		return
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.JwtSecret), nil
	})
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid token: %w", err), c, 401)
		return
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if sub, ok := claims["sub"].(string); ok {
			c.Set("userID", sub)
		}
		c.Next()
		return
	}

	returnErrorJsonCode(fmt.Errorf("invalid token claims"), c, 401)
}
