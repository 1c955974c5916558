package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "driftpro/internal/auth/errors"
	"driftpro/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token (header or cookie) and places
// the identity claims into the gin context. Every tenant-scoped route group
// mounts this first.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		if !authenticate(c, tokenString) {
			return
		}
		c.Next()
	}
}

// WebsocketAuthMiddleware authenticates the websocket handshake. Browser
// websocket clients cannot set an Authorization header, so the token is
// accepted as a query parameter first, with header and cookie as fallbacks.
func WebsocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if after, found := strings.CutPrefix(authHeader, "Bearer "); found {
				tokenString = after
			}
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		if !authenticate(c, tokenString) {
			return
		}
		c.Next()
	}
}

// authenticate verifies the token and places the identity claims into the
// gin context. It aborts the request and reports false on failure.
func authenticate(c *gin.Context, tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		errObj := autherrors.ErrInvalidToken
		if err != nil && strings.Contains(err.Error(), "expired") {
			errObj = autherrors.ErrTokenExpired
		}
		response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
		c.Abort()
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
		c.Abort()
		return false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
		c.Abort()
		return false
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Company ID not found in token", nil)
		c.Abort()
		return false
	}

	role, _ := claims["role"].(string)

	c.Set("user_id", userID)
	c.Set("company_id", companyID)
	c.Set("role", role)
	return true
}

// RoleMiddleware short-circuits requests whose role claim is not listed.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
